// ABOUTME: Tests for the advice selector's rules and ordering.
// ABOUTME: Covers the no-data case, goal gaps, fact caps, and streak praise.
package advice

import (
	"strings"
	"testing"
	"time"

	"github.com/harperreed/sleepcoach/internal/knowledge"
	"github.com/harperreed/sleepcoach/internal/models"
	"github.com/harperreed/sleepcoach/internal/stats"
)

func day(dd int) models.Day {
	return models.NewDay(2024, time.March, dd)
}

// sleptHours builds one entry per consecutive day ending at day(7),
// then summarizes over the first week of March.
func sleptHours(quality int, hours ...float64) (stats.Summary, stats.SleepReport) {
	w := stats.Window{From: day(1), To: day(7)}
	var entries []*models.SleepEntry
	start := 7 - len(hours) + 1
	for i, h := range hours {
		entries = append(entries, models.NewSleepEntry(day(start+i), h, quality))
	}
	return stats.SummarizeSleep(entries, w), stats.NewSleepReport(entries, w)
}

func testBase() *knowledge.Base {
	return knowledge.New(map[string][]string{
		knowledge.TopicSleep:    {"sleep fact one", "sleep fact two", "sleep fact three"},
		knowledge.TopicExercise: {"exercise fact one"},
	})
}

func TestSelectNoDataReturnsExactlyLogMoreData(t *testing.T) {
	sel := NewSelector(testBase(), DefaultThresholds())
	sum, report := sleptHours(3) // no entries at all

	got := sel.Select(sum, models.Goal{TargetHours: 7}, report)
	if len(got) != 1 {
		t.Fatalf("Select = %d messages, want exactly 1", len(got))
	}
	if got[0] != MsgLogMoreData {
		t.Errorf("Select = %q, want the log-more-data message", got[0])
	}
}

func TestSelectOnTrackNotBelowTarget(t *testing.T) {
	sel := NewSelector(testBase(), DefaultThresholds())
	sum, report := sleptHours(4, 8)

	got := sel.Select(sum, models.Goal{TargetHours: 7}, report)
	if len(got) == 0 {
		t.Fatal("Select returned no messages")
	}
	if !strings.HasPrefix(got[0], "On track") {
		t.Errorf("first message = %q, want an on-track message", got[0])
	}
	for _, msg := range got {
		if strings.Contains(msg, "Below target") {
			t.Errorf("unexpected below-target message: %q", msg)
		}
	}
}

func TestSelectBelowTargetHours(t *testing.T) {
	sel := NewSelector(testBase(), DefaultThresholds())
	sum, report := sleptHours(4, 6, 6, 6)

	got := sel.Select(sum, models.Goal{TargetHours: 7.5}, report)
	if !strings.HasPrefix(got[0], "Below target hours") {
		t.Errorf("first message = %q, want below-target-hours", got[0])
	}
	if !strings.Contains(got[0], "1.5h short") {
		t.Errorf("message should state the gap, got %q", got[0])
	}

	// Gap advice prefers sleep facts, capped at MaxFacts.
	if got[1] != "sleep fact one" || got[2] != "sleep fact two" {
		t.Errorf("facts = %q, %q; want the first two sleep facts", got[1], got[2])
	}
	if len(got) != 3 {
		t.Errorf("Select = %d messages, want 3", len(got))
	}
}

func TestSelectBelowTargetQuality(t *testing.T) {
	sel := NewSelector(testBase(), DefaultThresholds())
	sum, report := sleptHours(2, 8, 8)

	got := sel.Select(sum, models.Goal{TargetQuality: 4}, report)
	if !strings.HasPrefix(got[0], "Below target quality") {
		t.Errorf("first message = %q, want below-target-quality", got[0])
	}
}

func TestSelectHoursTolerance(t *testing.T) {
	th := DefaultThresholds()
	th.HoursTolerance = 0.25
	sel := NewSelector(testBase(), th)
	sum, report := sleptHours(4, 6.8)

	got := sel.Select(sum, models.Goal{TargetHours: 7}, report)
	if !strings.HasPrefix(got[0], "On track") {
		t.Errorf("first message = %q, want on-track within tolerance", got[0])
	}
}

func TestSelectOrderingWithStreakPraise(t *testing.T) {
	sel := NewSelector(testBase(), DefaultThresholds())
	// Seven consecutive nights of short sleep: below target and a streak.
	sum, report := sleptHours(3, 6, 6, 6, 6, 6, 6, 6)

	got := sel.Select(sum, models.Goal{TargetHours: 8}, report)
	if len(got) != 4 {
		t.Fatalf("Select = %d messages, want 4 (gap, 2 facts, praise): %v", len(got), got)
	}
	if !strings.HasPrefix(got[0], "Below target hours") {
		t.Errorf("got[0] = %q, want goal-gap first", got[0])
	}
	if !strings.HasPrefix(got[3], "Streak milestone") {
		t.Errorf("got[3] = %q, want streak praise last", got[3])
	}
}

func TestSelectNoGoalEmitsFacts(t *testing.T) {
	sel := NewSelector(testBase(), DefaultThresholds())
	sum, report := sleptHours(3, 7, 7)

	got := sel.Select(sum, models.Goal{}, report)
	if len(got) != 2 {
		t.Fatalf("Select = %d messages, want 2 facts: %v", len(got), got)
	}
	// All() groups facts by sorted topic, so exercise comes first.
	if got[0] != "exercise fact one" {
		t.Errorf("got[0] = %q, want the exercise fact", got[0])
	}
}

func TestSelectNeverEmpty(t *testing.T) {
	empty := NewSelector(knowledge.New(nil), Thresholds{})
	sum, report := sleptHours(3, 7)

	goals := []models.Goal{
		{},
		{TargetHours: 7},
		{TargetQuality: 3},
		{TargetHours: 10, TargetQuality: 5},
	}
	for _, goal := range goals {
		if got := empty.Select(sum, goal, report); len(got) == 0 {
			t.Errorf("Select with goal %+v returned no messages", goal)
		}
	}

	if got := empty.Select(sum, models.Goal{}, report); got[0] != MsgKeepLogging {
		t.Errorf("got %q, want keep-logging fallback", got[0])
	}
}

func TestProgress(t *testing.T) {
	sel := NewSelector(testBase(), DefaultThresholds())
	_, report := sleptHours(3, 7.5, 7.5)

	got := sel.Progress(report, models.Goal{TargetHours: 7, TargetQuality: 4})
	if len(got) != 2 {
		t.Fatalf("Progress = %d entries, want 2", len(got))
	}

	hours := got[0]
	if hours.Name != "hours" || hours.Status != StatusMet || hours.Difference != 0.5 {
		t.Errorf("hours progress = %+v, want met by 0.5", hours)
	}

	quality := got[1]
	if quality.Name != "quality" || quality.Status != StatusUnmet || quality.Difference != -1.0 {
		t.Errorf("quality progress = %+v, want unmet by -1.0", quality)
	}
}

func TestProgressNoGoalOrNoData(t *testing.T) {
	sel := NewSelector(testBase(), DefaultThresholds())

	_, report := sleptHours(3, 7)
	if got := sel.Progress(report, models.Goal{}); got != nil {
		t.Errorf("Progress without goal = %v, want nil", got)
	}

	_, empty := sleptHours(3)
	if got := sel.Progress(empty, models.Goal{TargetHours: 7}); got != nil {
		t.Errorf("Progress without data = %v, want nil", got)
	}
}
