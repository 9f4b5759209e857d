// ABOUTME: Aggregation of logged entries into per-window summaries.
// ABOUTME: Pure functions; empty input yields HasData=false, never an error.
package stats

import (
	"math"
	"sort"

	"github.com/harperreed/sleepcoach/internal/models"
)

// Window is an inclusive calendar-date range.
type Window struct {
	From models.Day `json:"from"`
	To   models.Day `json:"to"`
}

// LastNDays returns the window covering the n days ending at today, inclusive.
func LastNDays(n int, today models.Day) Window {
	if n < 1 {
		n = 1
	}
	return Window{From: today.AddDays(-(n - 1)), To: today}
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d models.Day) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

// Days returns the number of calendar days in the window.
func (w Window) Days() int {
	return w.From.DaysUntil(w.To) + 1
}

// DayValue is one day's aggregated value inside a summary.
type DayValue struct {
	Date  models.Day `json:"date"`
	Value float64    `json:"value"`
}

// Summary holds aggregate statistics over a window of entries.
// Numeric fields are zero and HasData is false when nothing fell
// inside the window.
type Summary struct {
	HasData       bool     `json:"has_data"`
	Count         int      `json:"count"`
	Mean          float64  `json:"mean"`
	StdDev        float64  `json:"std_dev"`
	Total         float64  `json:"total"`
	Best          DayValue `json:"best"`
	Worst         DayValue `json:"worst"`
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	Window        Window   `json:"window"`
}

// SummarizeSleep aggregates sleep entries over the window.
// Values are hours slept; one value per date (a later duplicate
// replaces an earlier one, matching last-write-wins storage).
func SummarizeSleep(entries []*models.SleepEntry, w Window) Summary {
	byDay := make(map[models.Day]float64)
	for _, e := range entries {
		if e == nil || !w.Contains(e.Date) {
			continue
		}
		byDay[e.Date] = e.HoursSlept
	}

	values := make([]float64, 0, len(byDay))
	for _, v := range byDay {
		values = append(values, v)
	}
	return build(values, byDay, w)
}

// SummarizeExercise aggregates exercise entries over the window.
// Mean and standard deviation are over session durations in minutes;
// best/worst day and streaks use total minutes per day.
func SummarizeExercise(entries []*models.ExerciseEntry, w Window) Summary {
	var values []float64
	byDay := make(map[models.Day]float64)
	for _, e := range entries {
		if e == nil || !w.Contains(e.Date) {
			continue
		}
		values = append(values, e.DurationMinutes)
		byDay[e.Date] += e.DurationMinutes
	}
	return build(values, byDay, w)
}

func build(values []float64, byDay map[models.Day]float64, w Window) Summary {
	s := Summary{Window: w}
	if len(values) == 0 {
		return s
	}

	s.HasData = true
	s.Count = len(values)
	for _, v := range values {
		s.Total += v
	}
	s.Mean = s.Total / float64(len(values))
	s.StdDev = stdDev(values, s.Mean)
	s.Best, s.Worst = extremes(byDay)
	s.CurrentStreak, s.LongestStreak = streaks(byDay, w)
	return s
}

// stdDev computes the population standard deviation.
func stdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// extremes finds the best and worst day by value.
// Ties resolve to the earliest date so output is deterministic.
func extremes(byDay map[models.Day]float64) (best, worst DayValue) {
	dvs := make([]DayValue, 0, len(byDay))
	for d, v := range byDay {
		dvs = append(dvs, DayValue{Date: d, Value: v})
	}
	sort.Slice(dvs, func(i, j int) bool { return dvs[i].Date.Before(dvs[j].Date) })

	best, worst = dvs[0], dvs[0]
	for _, dv := range dvs[1:] {
		if dv.Value > best.Value {
			best = dv
		}
		if dv.Value < worst.Value {
			worst = dv
		}
	}
	return best, worst
}

// streaks computes the current and longest runs of consecutive logged
// days. The current streak counts back from the window end with one
// day of grace, so an un-logged "today" does not zero it.
func streaks(byDay map[models.Day]float64, w Window) (current, longest int) {
	run := 0
	for d := w.From; !d.After(w.To); d = d.AddDays(1) {
		if _, ok := byDay[d]; ok {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	start := w.To
	if _, ok := byDay[start]; !ok {
		start = start.AddDays(-1)
	}
	for d := start; !d.Before(w.From); d = d.AddDays(-1) {
		if _, ok := byDay[d]; !ok {
			break
		}
		current++
	}
	return current, longest
}
