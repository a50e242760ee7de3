package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// signedQuantity expresión SQL del aporte de un movimiento: +qty ENTRADA, -qty SALIDA, 0 otro tipo.
// alias es el alias de kardex_movements en la consulta ("" si no hay alias).
func signedQuantity(alias string) string {
	if alias != "" {
		alias += "."
	}
	return fmt.Sprintf("CASE WHEN %[1]skind = '%[2]s' THEN %[1]squantity WHEN %[1]skind = '%[3]s' THEN -%[1]squantity ELSE 0 END",
		alias, entity.MovementKindEntrada, entity.MovementKindSalida)
}

// stockFilterClause construye el WHERE del alcance de stock con placeholders desde $1.
func stockFilterClause(f kardex.StockFilter) (string, []any) {
	where := "product_id = $1"
	args := []any{f.ProductID}
	pos := 2
	if f.LotID != nil {
		where += fmt.Sprintf(" AND lot_id = $%d", pos)
		args = append(args, *f.LotID)
		pos++
	}
	if f.EnvironmentID != nil {
		where += fmt.Sprintf(" AND environment_id = $%d", pos)
		args = append(args, *f.EnvironmentID)
	}
	return where, args
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
