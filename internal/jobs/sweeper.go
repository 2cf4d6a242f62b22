// Package jobs runs the background maintenance schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"clinic-appointment-api/pkg/logging"
)

// TokenStore is the slice of the data layer the sweeper needs.
type TokenStore interface {
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type Sweeper struct {
	cron   *cron.Cron
	store  TokenStore
	logger *logging.Logger
}

func NewSweeper(store TokenStore, logger *logging.Logger) *Sweeper {
	if logger == nil {
		logger = logging.Default()
	}
	return &Sweeper{cron: cron.New(), store: store, logger: logger}
}

// Start registers the sweep on the given cron schedule and starts the
// scheduler. Sessions whose refresh token expired are cleared so stale
// tokens cannot linger in the database.
func (s *Sweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := s.store.ClearExpiredRefreshTokens(ctx, time.Now())
		if err != nil {
			s.logger.Error("refresh token sweep failed", "err", err)
			return
		}
		s.logger.Info("refresh token sweep finished", "cleared", n)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}
