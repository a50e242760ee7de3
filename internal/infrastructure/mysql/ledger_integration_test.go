//go:build integration

package mysql_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/infrastructure/ledgertest"
	"github.com/jhoicas/kardex-api/internal/infrastructure/mysql"
	"github.com/jhoicas/kardex-api/pkg/config"
)

// go test -tags integration ./internal/infrastructure/mysql/ con KARDEX_TEST_MYSQL_DSN
// (formato go-sql-driver, ej. root:secreto@tcp(localhost:3306)/kardex_test) sobre una base desechable.
func TestLedgerConformance(t *testing.T) {
	dsn := os.Getenv("KARDEX_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("KARDEX_TEST_MYSQL_DSN no definido")
	}
	ctx := context.Background()
	db, err := mysql.Open(ctx, config.DBConfig{Driver: config.DriverMySQL, DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `DROP TABLE IF EXISTS kardex_movements, lots, users, products`)
	require.NoError(t, err)
	schema, err := os.ReadFile("migrations/001_kardex.sql")
	require.NoError(t, err)
	// Sin multiStatements en el DSN: una sentencia por Exec.
	for _, stmt := range statements(string(schema)) {
		_, err = db.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}

	ledgertest.Run(t, ledgertest.Repos{
		Ledger:    mysql.NewLedgerRepository(db),
		Products:  mysql.NewProductRepository(db),
		Lots:      mysql.NewLotRepository(db),
		Movements: mysql.NewMovementRepository(db),
	})
}

func statements(script string) []string {
	var out []string
	for _, chunk := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
