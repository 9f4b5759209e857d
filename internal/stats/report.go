// ABOUTME: Display reports derived from logged entries over a window.
// ABOUTME: Sleep consistency/trend plus exercise load and session breakdowns.
package stats

import (
	"math"
	"sort"

	"github.com/harperreed/sleepcoach/internal/models"
)

// Trend labels for the sleep report.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Trend is called stable until at least this many nights are logged.
const trendMinNights = 4

// SleepReport summarizes a window of sleep entries for the dashboard.
type SleepReport struct {
	Nights           int     `json:"nights"`
	AvgHours         float64 `json:"avg_hours"`
	AvgQuality       float64 `json:"avg_quality"`
	ConsistencyScore int     `json:"consistency_score"`
	Trend            string  `json:"trend"`
}

// NewSleepReport computes the report over entries inside the window.
func NewSleepReport(entries []*models.SleepEntry, w Window) SleepReport {
	byDay := make(map[models.Day]*models.SleepEntry)
	for _, e := range entries {
		if e == nil || !w.Contains(e.Date) {
			continue
		}
		byDay[e.Date] = e
	}

	nights := make([]*models.SleepEntry, 0, len(byDay))
	for _, e := range byDay {
		nights = append(nights, e)
	}
	sort.Slice(nights, func(i, j int) bool { return nights[i].Date.Before(nights[j].Date) })

	r := SleepReport{Nights: len(nights), Trend: TrendStable}
	if len(nights) == 0 {
		return r
	}

	var hoursSum, qualitySum float64
	hours := make([]float64, len(nights))
	for i, e := range nights {
		hours[i] = e.HoursSlept
		hoursSum += e.HoursSlept
		qualitySum += float64(e.Quality)
	}
	r.AvgHours = round1(hoursSum / float64(len(nights)))
	r.AvgQuality = round1(qualitySum / float64(len(nights)))
	r.ConsistencyScore = consistencyScore(hours)
	r.Trend = trendOf(hours)
	return r
}

// consistencyScore rates night-to-night regularity on a 0-100 scale:
// 100 minus ten points per average hour of variation between
// consecutive nights, floored at zero. A single night scores 100.
func consistencyScore(hours []float64) int {
	if len(hours) < 2 {
		return 100
	}
	var diffSum float64
	for i := 1; i < len(hours); i++ {
		diffSum += math.Abs(hours[i] - hours[i-1])
	}
	score := 100 - 10*diffSum/float64(len(hours)-1)
	if score < 0 {
		return 0
	}
	return int(math.Round(score))
}

// trendOf compares the average of the first half of nights against the
// second half: 10% better is improving, 10% worse is declining.
func trendOf(hours []float64) string {
	if len(hours) < trendMinNights {
		return TrendStable
	}

	mid := len(hours) / 2
	first := avg(hours[:mid])
	second := avg(hours[mid:])
	if first == 0 {
		return TrendStable
	}

	switch {
	case second >= first*1.1:
		return TrendImproving
	case second <= first*0.9:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// DurationBucket is one bar of the session-length histogram.
type DurationBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ExerciseReport summarizes a window of exercise entries.
type ExerciseReport struct {
	TotalMinutes float64                         `json:"total_minutes"`
	Sessions     int                             `json:"sessions"`
	ActiveDays   int                             `json:"active_days"`
	ByActivity   map[models.ActivityType]float64 `json:"by_activity"`
	Histogram    []DurationBucket                `json:"histogram"`
}

// NewExerciseReport computes the report over entries inside the window.
func NewExerciseReport(entries []*models.ExerciseEntry, w Window) ExerciseReport {
	r := ExerciseReport{
		ByActivity: make(map[models.ActivityType]float64),
		Histogram: []DurationBucket{
			{Label: "0-30 min"},
			{Label: "30-60 min"},
			{Label: "60-120 min"},
			{Label: "120+ min"},
		},
	}

	days := make(map[models.Day]struct{})
	for _, e := range entries {
		if e == nil || !w.Contains(e.Date) {
			continue
		}
		r.Sessions++
		r.TotalMinutes += e.DurationMinutes
		r.ByActivity[e.ActivityType] += e.DurationMinutes
		days[e.Date] = struct{}{}

		switch m := e.DurationMinutes; {
		case m < 30:
			r.Histogram[0].Count++
		case m < 60:
			r.Histogram[1].Count++
		case m < 120:
			r.Histogram[2].Count++
		default:
			r.Histogram[3].Count++
		}
	}
	r.ActiveDays = len(days)
	r.TotalMinutes = round1(r.TotalMinutes)
	return r
}
