// Package shooting converts burst/rest dispatch timings into throughput
// estimates. The same functions back the server-side shootingPerDay value and
// the editor's live preview, so both always agree for identical input.
package shooting

import "math"

// DaySeconds is the fixed window the daily estimate is computed over.
const DaySeconds = 86_400

// Params are the timing parameters of a repeating burst/rest cycle.
type Params struct {
	NumberShots      int     `json:"numberShots"`
	TimeBetweenShots float64 `json:"timeBetweenShots"` // seconds between shots inside a burst
	TimeRest         float64 `json:"timeRest"`         // seconds of rest after each burst
}

// Returns the number of shots that fit into one 86,400 second day.
// Invalid input (no shots, a cycle of zero or negative length, non-finite
// values) yields 0.
func DailyShots(p Params) int {
	if p.NumberShots <= 0 {
		return 0
	}

	cycle := CycleTime(p)
	if cycle <= 0 || math.IsNaN(cycle) || math.IsInf(cycle, 0) {
		return 0
	}

	fullCycles := math.Floor(DaySeconds / cycle)
	remaining := DaySeconds - fullCycles*cycle

	extraShots := 0.0
	if hasPartialBurst(p) {
		extraShots = math.Floor(remaining / p.TimeBetweenShots)
	}

	total := fullCycles*float64(p.NumberShots) + extraShots
	if math.IsNaN(total) || total < 0 {
		return 0
	}
	if total >= float64(math.MaxInt) {
		return math.MaxInt
	}

	return int(total)
}

// Returns the duration in seconds of one burst followed by its rest period.
// A burst of N shots has N-1 gaps; a single-shot burst has none.
func CycleTime(p Params) float64 {
	isMultiShotBurst := p.NumberShots > 1
	if !isMultiShotBurst {
		return p.TimeRest
	}

	return float64(p.NumberShots-1)*p.TimeBetweenShots + p.TimeRest
}

// A leftover slice of the day can only be scored when a burst has more than
// one shot and the gap between shots is positive.
func hasPartialBurst(p Params) bool {
	return p.NumberShots > 1 && p.TimeBetweenShots > 0
}

// Returns the average shots per hour for a daily total. The value is not
// floored: it is a display approximation, not a throughput guarantee.
func HourlyAverage(daily int) float64 {
	return float64(daily) / 24
}
