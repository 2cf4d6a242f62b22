package jobs

import (
	"context"
	"io"
	"testing"
	"time"

	"clinic-appointment-api/pkg/logging"
)

type countingStore struct {
	calls int
}

func (c *countingStore) ClearExpiredRefreshTokens(context.Context, time.Time) (int64, error) {
	c.calls++
	return 0, nil
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewSweeper(&countingStore{}, logging.NewWithWriter(io.Discard, "error"))
	if err := s.Start("not a cron spec"); err == nil {
		t.Fatal("Start must reject an invalid schedule")
	}
}

func TestStartAcceptsValidSchedule(t *testing.T) {
	s := NewSweeper(&countingStore{}, logging.NewWithWriter(io.Discard, "error"))
	if err := s.Start("5 0 * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
