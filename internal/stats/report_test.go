// ABOUTME: Tests for sleep and exercise reports.
// ABOUTME: Covers averages, consistency scoring, trend labels, and histograms.
package stats

import (
	"testing"

	"github.com/harperreed/sleepcoach/internal/models"
)

func TestNewSleepReportEmpty(t *testing.T) {
	r := NewSleepReport(nil, Window{From: day(1), To: day(7)})

	if r.Nights != 0 {
		t.Errorf("Nights = %d, want 0", r.Nights)
	}
	if r.AvgHours != 0 || r.AvgQuality != 0 {
		t.Errorf("expected zero averages, got %+v", r)
	}
	if r.Trend != TrendStable {
		t.Errorf("Trend = %s, want stable", r.Trend)
	}
}

func TestNewSleepReportAverages(t *testing.T) {
	entries := []*models.SleepEntry{
		models.NewSleepEntry(day(1), 7.25, 3),
		models.NewSleepEntry(day(2), 8.75, 4),
	}
	r := NewSleepReport(entries, Window{From: day(1), To: day(7)})

	if r.Nights != 2 {
		t.Errorf("Nights = %d, want 2", r.Nights)
	}
	if r.AvgHours != 8.0 {
		t.Errorf("AvgHours = %f, want 8.0", r.AvgHours)
	}
	if r.AvgQuality != 3.5 {
		t.Errorf("AvgQuality = %f, want 3.5", r.AvgQuality)
	}
}

func TestConsistencyScore(t *testing.T) {
	w := Window{From: day(1), To: day(10)}

	tests := []struct {
		name  string
		hours []float64
		want  int
	}{
		{"single night", []float64{8}, 100},
		{"perfectly steady", []float64{8, 8, 8}, 100},
		{"two hour swings", []float64{8, 6, 8}, 80},
		{"wildly erratic", []float64{1, 12, 1, 12}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []*models.SleepEntry
			for i, h := range tt.hours {
				entries = append(entries, models.NewSleepEntry(day(i+1), h, 3))
			}
			r := NewSleepReport(entries, w)
			if r.ConsistencyScore != tt.want {
				t.Errorf("ConsistencyScore = %d, want %d", r.ConsistencyScore, tt.want)
			}
		})
	}
}

func TestSleepTrend(t *testing.T) {
	w := Window{From: day(1), To: day(10)}

	tests := []struct {
		name  string
		hours []float64
		want  string
	}{
		{"improving", []float64{6, 6, 8, 8}, TrendImproving},
		{"declining", []float64{8, 8, 6, 6}, TrendDeclining},
		{"steady", []float64{7, 7, 7, 7}, TrendStable},
		{"too few nights", []float64{6, 6, 9}, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []*models.SleepEntry
			for i, h := range tt.hours {
				entries = append(entries, models.NewSleepEntry(day(i+1), h, 3))
			}
			r := NewSleepReport(entries, w)
			if r.Trend != tt.want {
				t.Errorf("Trend = %s, want %s", r.Trend, tt.want)
			}
		})
	}
}

func TestNewExerciseReport(t *testing.T) {
	entries := []*models.ExerciseEntry{
		models.NewExerciseEntry(day(1), models.ActivityCardio, 25),
		models.NewExerciseEntry(day(1), models.ActivityRunning, 45),
		models.NewExerciseEntry(day(2), models.ActivityWalking, 100),
		models.NewExerciseEntry(day(3), models.ActivityOther, 130),
	}
	r := NewExerciseReport(entries, Window{From: day(1), To: day(7)})

	if r.Sessions != 4 {
		t.Errorf("Sessions = %d, want 4", r.Sessions)
	}
	if r.TotalMinutes != 300 {
		t.Errorf("TotalMinutes = %f, want 300", r.TotalMinutes)
	}
	if r.ActiveDays != 3 {
		t.Errorf("ActiveDays = %d, want 3", r.ActiveDays)
	}
	if r.ByActivity[models.ActivityRunning] != 45 {
		t.Errorf("ByActivity[Running] = %f, want 45", r.ByActivity[models.ActivityRunning])
	}

	wantCounts := []int{1, 1, 1, 1}
	for i, want := range wantCounts {
		if r.Histogram[i].Count != want {
			t.Errorf("Histogram[%d] (%s) = %d, want %d", i, r.Histogram[i].Label, r.Histogram[i].Count, want)
		}
	}
}

func TestNewExerciseReportEmpty(t *testing.T) {
	r := NewExerciseReport(nil, Window{From: day(1), To: day(7)})

	if r.Sessions != 0 || r.TotalMinutes != 0 || r.ActiveDays != 0 {
		t.Errorf("expected zero report, got %+v", r)
	}
	if len(r.Histogram) != 4 {
		t.Errorf("Histogram buckets = %d, want 4", len(r.Histogram))
	}
}
