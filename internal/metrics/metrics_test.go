package metrics

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vovakirdan/roadrush/internal/ratelimit"
)

func TestWatchLimiter(t *testing.T) {
	reg := prometheus.NewRegistry()
	l := ratelimit.New(ratelimit.Config{PerSecond: 1, Burst: 1, IdleTTL: time.Minute}, clockwork.NewFakeClock())
	if err := watchLimiter(reg, "ssh", l); err != nil {
		t.Fatalf("watchLimiter() failed: %v", err)
	}

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	got := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "limiter" && lp.GetValue() != "ssh" {
					t.Errorf("%s has limiter label %q", mf.GetName(), lp.GetValue())
				}
			}
			switch {
			case m.GetGauge() != nil:
				got[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				got[mf.GetName()] = m.GetCounter().GetValue()
			}
		}
	}

	expected := map[string]float64{
		"roadrush_ratelimit_clients":        2,
		"roadrush_ratelimit_allowed_total":  2,
		"roadrush_ratelimit_rejected_total": 1,
	}
	for name, want := range expected {
		if got[name] != want {
			t.Errorf("%s = %v, expected %v", name, got[name], want)
		}
	}

	if err := watchLimiter(reg, "ssh", l); err == nil {
		t.Error("watching the same limiter name twice should fail")
	}
	if err := watchLimiter(reg, "http", l); err != nil {
		t.Errorf("a second limiter name should register: %v", err)
	}
}
