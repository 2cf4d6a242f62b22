package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveAuth("login", "ok")
	m.ObserveAuth("login", "ok")
	m.ObserveAuth("login", "denied")
	m.ObserveBooking("conflict")
	m.ObserveHTTP("/api/v1/users/login", "POST", 200, 0.042)

	if got := testutil.ToFloat64(m.authTotal.WithLabelValues("login", "ok")); got != 2 {
		t.Errorf("login ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.authTotal.WithLabelValues("login", "denied")); got != 1 {
		t.Errorf("login denied = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.bookingsTotal.WithLabelValues("conflict")); got != 1 {
		t.Errorf("booking conflict = %v, want 1", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAuth("login", "ok")
	m.ObserveBooking("ok")
	m.ObserveHTTP("/", "GET", 200, 0)
}
