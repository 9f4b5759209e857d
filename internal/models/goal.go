// ABOUTME: Goal model for user sleep targets and AdviceFact reference data.
// ABOUTME: Goals are per-user settings, overwritten on edit.
package models

import "fmt"

// Goal holds a user's sleep targets. Zero targets mean "not set".
type Goal struct {
	TargetHours   float64 `json:"target_hours"`
	TargetQuality float64 `json:"target_quality"`
}

// IsSet reports whether any target has been configured.
func (g Goal) IsSet() bool {
	return g.TargetHours > 0 || g.TargetQuality > 0
}

// Validate checks the goal's invariants.
func (g Goal) Validate() error {
	if g.TargetHours < 0 || g.TargetQuality < 0 {
		return fmt.Errorf("goal: targets must be non-negative")
	}
	if g.TargetHours > 24 {
		return fmt.Errorf("goal: target hours cannot exceed 24, got %.1f", g.TargetHours)
	}
	if g.TargetQuality > QualityMax {
		return fmt.Errorf("goal: target quality cannot exceed %d, got %.1f", QualityMax, g.TargetQuality)
	}
	return nil
}

// AdviceFact is one read-only knowledge-base fact.
type AdviceFact struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}
