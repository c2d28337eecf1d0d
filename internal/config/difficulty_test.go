package config

import (
	"math"
	"testing"
	"time"
)

func TestMultiplierLiteralConstants(t *testing.T) {
	d := NewDifficultyManager(DefaultRoadRushConfig().Difficulty)

	tests := []struct {
		name     string
		elapsed  time.Duration
		score    int
		expected float64
	}{
		{"start", 0, 0, 1.0},
		{"20 seconds", 20 * time.Second, 0, 1.5},
		{"350 points", 0, 350, 1.5},
		{"both", 20 * time.Second, 350, 2.0},
		{"capped", 10 * time.Minute, 5000, 3.9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := d.Multiplier(tc.elapsed, tc.score)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Multiplier(%v, %d) = %f, expected %f", tc.elapsed, tc.score, got, tc.expected)
			}
		})
	}
}

func TestMultiplierMonotonicAndCapped(t *testing.T) {
	d := NewDifficultyManager(DefaultRoadRushConfig().Difficulty)

	for _, score := range []int{0, 100, 1000, 10000} {
		prev := 0.0
		for ms := 0; ms <= 600000; ms += 250 {
			m := d.Multiplier(time.Duration(ms)*time.Millisecond, score)
			if m > 3.9 {
				t.Fatalf("multiplier %f exceeds cap at %dms score %d", m, ms, score)
			}
			if m < prev {
				t.Fatalf("multiplier decreased from %f to %f at %dms score %d", prev, m, ms, score)
			}
			prev = m
		}
	}
}

func TestMultiplierDisabled(t *testing.T) {
	cfg := DefaultRoadRushConfig().Difficulty
	cfg.Enabled = false
	d := NewDifficultyManager(cfg)

	if d.IsEnabled() {
		t.Error("IsEnabled should be false")
	}
	if got := d.Multiplier(time.Hour, 99999); got != 1 {
		t.Errorf("disabled multiplier = %f, expected 1", got)
	}
	if d.Cap() != 1 {
		t.Errorf("disabled cap = %f, expected 1", d.Cap())
	}
}

func TestSpawnInterval(t *testing.T) {
	s := DefaultRoadRushConfig().Spawn

	tests := []struct {
		elapsed  time.Duration
		expected int
	}{
		{0, 45},
		{9 * time.Second, 45},
		{10 * time.Second, 44},
		{100 * time.Second, 35},
		{300 * time.Second, 15},
		{time.Hour, 15},
	}

	for _, tc := range tests {
		if got := s.Interval(tc.elapsed); got != tc.expected {
			t.Errorf("Interval(%v) = %d, expected %d", tc.elapsed, got, tc.expected)
		}
	}
}

func TestRoadSpeed(t *testing.T) {
	r := DefaultRoadRushConfig().Road

	if got := r.RoadSpeed(0); got != 5 {
		t.Errorf("RoadSpeed(0) = %f, expected 5", got)
	}
	if got := r.RoadSpeed(500); got != 10 {
		t.Errorf("RoadSpeed(500) = %f, expected 10", got)
	}
}
