// Package scheduler tareas periódicas (snapshot del reporte de stock) con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/kardex-api/pkg/logger"
)

// Parser acepta segundos opcionales y descriptores (@daily, @every 1h).
var Parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// SnapshotFunc escribe un snapshot y devuelve la ruta generada.
type SnapshotFunc func(ctx context.Context) (string, error)

// Scheduler envoltorio de cron.Cron con logging y timeout por ejecución.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	timeout time.Duration
}

// New crea el scheduler en la zona horaria indicada (vacía = UTC).
func New(location string, log *logger.Logger) (*Scheduler, error) {
	loc := time.UTC
	if location != "" {
		l, err := time.LoadLocation(location)
		if err != nil {
			return nil, fmt.Errorf("scheduler: zona horaria %q: %w", location, err)
		}
		loc = l
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithParser(Parser)),
		log:     log,
		timeout: 2 * time.Minute,
	}, nil
}

// AddSnapshot programa fn según spec. Un panic dentro de fn se registra y no detiene el scheduler.
func (s *Scheduler) AddSnapshot(spec, name string, fn SnapshotFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Str("job", name).Interface("panic", r).Msg("job abortado")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		path, err := fn(ctx)
		if err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("snapshot fallido")
			return
		}
		s.log.Info().Str("job", name).Str("path", path).Dur("elapsed", time.Since(start)).Msg("snapshot escrito")
	})
	if err != nil {
		return fmt.Errorf("scheduler: spec %q: %w", spec, err)
	}
	return nil
}

// Start arranca el scheduler en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el scheduler y espera las ejecuciones en curso hasta que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Entries cantidad de tareas programadas.
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }
