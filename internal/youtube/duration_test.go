package youtube

import (
	"testing"
	"time"
)

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		duration string
		want     int
	}{
		{"PT2H15M30S", 8130},
		{"PT1M30S", 90},
		{"PT45S", 45},
		{"PT3H", 10800},
		{"PT10M", 600},
		{"PT", 0},
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		t.Run(tt.duration, func(t *testing.T) {
			if got := parseDurationSeconds(tt.duration); got != tt.want {
				t.Errorf("parseDurationSeconds(%q) = %d, want %d", tt.duration, got, tt.want)
			}
		})
	}
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		age     time.Duration
		want    float64
		epsilon float64
	}{
		{"published yesterday", 24 * time.Hour, 1.0, 0},
		{"exactly at full window", 30 * 24 * time.Hour, 1.0, 0},
		{"two years old", 730 * 24 * time.Hour, 0.1, 0},
		{"five years old", 5 * 365 * 24 * time.Hour, 0.1, 0},
		{"halfway through decay", 380 * 24 * time.Hour, 0.55, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recencyScore(now.Add(-tt.age), now)
			if diff := got - tt.want; diff > tt.epsilon || diff < -tt.epsilon {
				t.Errorf("recencyScore(age=%v) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestRecencyScoreZeroTime(t *testing.T) {
	if got := recencyScore(time.Time{}, time.Now()); got != recencyFloor {
		t.Errorf("recencyScore(zero) = %v, want floor %v", got, recencyFloor)
	}
}
