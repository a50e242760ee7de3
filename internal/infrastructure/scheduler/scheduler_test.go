package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func TestParser_AceptaSegundosYDescriptores(t *testing.T) {
	for _, spec := range []string{"0 2 * * *", "*/30 * * * * *", "@daily", "@every 1h"} {
		_, err := scheduler.Parser.Parse(spec)
		assert.NoError(t, err, spec)
	}
	_, err := scheduler.Parser.Parse("cada hora")
	assert.Error(t, err)
}

func TestScheduler_EjecutaSnapshot(t *testing.T) {
	s, err := scheduler.New("America/Bogota", logger.Nop())
	require.NoError(t, err)

	var calls atomic.Int32
	require.NoError(t, s.AddSnapshot("@every 1s", "stock", func(context.Context) (string, error) {
		calls.Add(1)
		return "reports/stock.xlsx", nil
	}))
	require.NoError(t, s.AddSnapshot("@every 1s", "panic", func(context.Context) (string, error) {
		panic("boom")
	}))
	assert.Equal(t, 2, s.Entries())

	s.Start()
	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestScheduler_Errores(t *testing.T) {
	_, err := scheduler.New("Marte/Olympus", logger.Nop())
	assert.Error(t, err)

	s, err := scheduler.New("", logger.Nop())
	require.NoError(t, err)
	assert.Error(t, s.AddSnapshot("nunca", "x", nil))
}
