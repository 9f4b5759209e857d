// ABOUTME: Rule-based advice selection from summaries, goals, and facts.
// ABOUTME: Fixed priority: goal-gap advice, then facts, then streak praise.
package advice

import (
	"fmt"
	"math"

	"github.com/harperreed/sleepcoach/internal/knowledge"
	"github.com/harperreed/sleepcoach/internal/models"
	"github.com/harperreed/sleepcoach/internal/stats"
)

// Messages emitted independent of the knowledge base.
const (
	// MsgLogMoreData is the single message returned when there is no
	// data to advise on.
	MsgLogMoreData = "Log more data to unlock advice: a few nights of sleep and a couple of workouts are enough to get started."
	// MsgKeepLogging is the fallback when data exists but no rule fired.
	MsgKeepLogging = "Keep logging daily to sharpen your trends and advice."
)

// Goal status values, matching the dashboard's met/unmet badges.
const (
	StatusMet   = "met"
	StatusUnmet = "unmet"
)

// Thresholds tunes the selector's rules. Values come from config, not
// from constants buried in conditionals.
type Thresholds struct {
	// HoursTolerance widens the target-hours comparison: averages within
	// tolerance of the target still count as on track.
	HoursTolerance float64 `json:"hours_tolerance"`
	// QualityTolerance does the same for the quality target.
	QualityTolerance float64 `json:"quality_tolerance"`
	// StreakMilestone is the consecutive-day count that earns praise.
	// Zero disables streak praise.
	StreakMilestone int `json:"streak_milestone"`
	// MaxFacts caps how many knowledge-base facts are attached.
	MaxFacts int `json:"max_facts"`
}

// DefaultThresholds returns the stock tuning values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HoursTolerance:   0,
		QualityTolerance: 0,
		StreakMilestone:  7,
		MaxFacts:         2,
	}
}

// Selector picks ordered advice strings for the dashboard.
type Selector struct {
	kb *knowledge.Base
	th Thresholds
}

// NewSelector builds a selector around an injected knowledge base.
func NewSelector(kb *knowledge.Base, th Thresholds) *Selector {
	if kb == nil {
		kb = knowledge.New(nil)
	}
	return &Selector{kb: kb, th: th}
}

// Select returns ordered advice for the window: goal-gap messages
// first, then up to MaxFacts knowledge-base facts, then streak praise.
// Without data it returns exactly the log-more-data message; it never
// returns an empty list.
func (s *Selector) Select(sum stats.Summary, goal models.Goal, report stats.SleepReport) []string {
	if !sum.HasData {
		return []string{MsgLogMoreData}
	}

	var out []string

	below := 0
	if goal.IsSet() {
		if goal.TargetHours > 0 && sum.Mean+s.th.HoursTolerance < goal.TargetHours {
			out = append(out, fmt.Sprintf(
				"Below target hours: averaging %.1fh of sleep against your %.1fh goal (%.1fh short).",
				sum.Mean, goal.TargetHours, goal.TargetHours-sum.Mean))
			below++
		}
		if goal.TargetQuality > 0 && report.Nights > 0 &&
			report.AvgQuality+s.th.QualityTolerance < goal.TargetQuality {
			out = append(out, fmt.Sprintf(
				"Below target quality: averaging %.1f/%d against your %.1f/%d goal.",
				report.AvgQuality, models.QualityMax, goal.TargetQuality, models.QualityMax))
			below++
		}
		if below == 0 {
			out = append(out, s.onTrack(sum, goal))
		}
	}

	facts := s.kb.All()
	if below > 0 {
		// Gaps are sleep gaps; prefer sleep facts.
		facts = s.kb.Facts(knowledge.TopicSleep)
	}
	for i := 0; i < len(facts) && i < s.th.MaxFacts; i++ {
		out = append(out, facts[i].Text)
	}

	if s.th.StreakMilestone > 0 && sum.CurrentStreak >= s.th.StreakMilestone {
		out = append(out, fmt.Sprintf(
			"Streak milestone: %d consecutive days logged. Keep it up!", sum.CurrentStreak))
	}

	if len(out) == 0 {
		out = append(out, MsgKeepLogging)
	}
	return out
}

func (s *Selector) onTrack(sum stats.Summary, goal models.Goal) string {
	if goal.TargetHours > 0 {
		return fmt.Sprintf("On track: averaging %.1fh of sleep against your %.1fh goal.",
			sum.Mean, goal.TargetHours)
	}
	return fmt.Sprintf("On track: sleep quality is meeting your %.1f/%d goal.",
		goal.TargetQuality, models.QualityMax)
}

// GoalProgress is one target's status for dashboard rendering.
type GoalProgress struct {
	Name       string  `json:"name"`
	Target     float64 `json:"target"`
	Actual     float64 `json:"actual"`
	Difference float64 `json:"difference"`
	Status     string  `json:"status"`
}

// Progress compares the report against each set target: met when the
// actual average reaches the target, with the difference rounded to
// one decimal. Nothing is reported without data or without a goal.
func (s *Selector) Progress(report stats.SleepReport, goal models.Goal) []GoalProgress {
	if report.Nights == 0 || !goal.IsSet() {
		return nil
	}

	var out []GoalProgress
	if goal.TargetHours > 0 {
		out = append(out, newProgress("hours", goal.TargetHours, report.AvgHours))
	}
	if goal.TargetQuality > 0 {
		out = append(out, newProgress("quality", goal.TargetQuality, report.AvgQuality))
	}
	return out
}

func newProgress(name string, target, actual float64) GoalProgress {
	diff := math.Round((actual-target)*10) / 10
	status := StatusMet
	if diff < 0 {
		status = StatusUnmet
	}
	return GoalProgress{
		Name:       name,
		Target:     target,
		Actual:     actual,
		Difference: diff,
		Status:     status,
	}
}
