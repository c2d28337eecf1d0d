package config

import (
	"math"
	"time"
)

// DifficultyManager calculates the combined time/score speed multiplier.
//
// The time term is 1 + elapsed/window, the score term is 1 + score/divisor,
// and the multiplier is their average capped at Cap. Both terms only grow,
// so the multiplier is non-decreasing in either input.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled
}

// Cap returns the highest multiplier this manager can produce.
func (d *DifficultyManager) Cap() float64 {
	if !d.cfg.Enabled {
		return 1
	}
	return d.cfg.Cap
}

// Multiplier returns the combined multiplier for the given run time and score.
// With progression disabled it is always 1.
func (d *DifficultyManager) Multiplier(elapsed time.Duration, score int) float64 {
	if !d.cfg.Enabled {
		return 1
	}

	secs := math.Max(0, elapsed.Seconds()) + d.cfg.HeadStartSec
	timeTerm := 1 + secs/d.cfg.TimeWindowSec
	scoreTerm := 1 + math.Max(0, float64(score))/d.cfg.ScoreDivisor

	return math.Min(d.cfg.Cap, (timeTerm+scoreTerm)/2)
}

// Interval returns the number of ticks between enemy spawn attempts.
// It shrinks by one tick every StepSecs seconds down to MinInterval.
func (s SpawnConfig) Interval(elapsed time.Duration) int {
	step := s.StepSecs
	if step <= 0 {
		step = 1
	}
	shrink := int(math.Floor(math.Max(0, elapsed.Seconds()) / float64(step)))
	return max(s.MinInterval, s.BaseInterval-shrink)
}

// RoadSpeed returns the road scroll speed before the combined multiplier.
func (r RoadConfig) RoadSpeed(score int) float64 {
	if r.ScoreDivisor <= 0 {
		return r.BaseSpeed
	}
	return r.BaseSpeed * (1 + float64(score)/r.ScoreDivisor)
}
