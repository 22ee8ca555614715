package youtube

import (
	"regexp"
	"strconv"
	"time"
)

// Recency scoring: anything published in the last month scores full,
// anything older than about two years scores the floor, with linear
// interpolation in between.
const (
	recencyFullWindow = 30 * 24 * time.Hour
	recencyFloorAge   = 730 * 24 * time.Hour
	recencyFloor      = 0.1
)

var iso8601Duration = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseDurationSeconds parses the API's compact ISO 8601 duration
// (e.g. "PT2H15M30S", "PT45S"). Any component may be absent; an
// unparseable value yields zero.
func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	matches := iso8601Duration.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	total := 0
	for i, multiplier := range []int{3600, 60, 1} {
		if matches[i+1] == "" {
			continue
		}
		if v, err := strconv.Atoi(matches[i+1]); err == nil {
			total += v * multiplier
		}
	}
	return total
}

func recencyScore(publishedAt, now time.Time) float64 {
	if publishedAt.IsZero() {
		return recencyFloor
	}
	age := now.Sub(publishedAt)
	if age <= recencyFullWindow {
		return 1.0
	}
	if age >= recencyFloorAge {
		return recencyFloor
	}
	fraction := float64(age-recencyFullWindow) / float64(recencyFloorAge-recencyFullWindow)
	return 1.0 - fraction*(1.0-recencyFloor)
}
