// ABOUTME: ExerciseEntry model and ActivityType enum for exercise logging.
// ABOUTME: Multiple entries per date allowed; each carries a UUID for deletion.
package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ActivityType is a closed enumeration of supported exercise activities.
type ActivityType string

const (
	ActivityCardio       ActivityType = "Cardio"
	ActivityRunning      ActivityType = "Running"
	ActivityWalking      ActivityType = "Walking"
	ActivityFitnessClass ActivityType = "FitnessClass"
	ActivityOther        ActivityType = "Other"
)

// ActivityTypes lists all valid activity types in display order.
var ActivityTypes = []ActivityType{
	ActivityCardio,
	ActivityRunning,
	ActivityWalking,
	ActivityFitnessClass,
	ActivityOther,
}

// ParseActivityType converts a string to an ActivityType.
// Unknown values are rejected so they never enter the model layer.
func ParseActivityType(s string) (ActivityType, error) {
	for _, at := range ActivityTypes {
		if string(at) == s {
			return at, nil
		}
	}
	return "", fmt.Errorf("unknown activity type: %q", s)
}

// Label returns a human-readable name for the activity.
func (a ActivityType) Label() string {
	switch a {
	case ActivityCardio:
		return "Cardio"
	case ActivityRunning:
		return "Running"
	case ActivityWalking:
		return "Walking"
	case ActivityFitnessClass:
		return "Fitness class"
	case ActivityOther:
		return "Other"
	}
	return string(a)
}

// ExerciseEntry represents one logged exercise session.
type ExerciseEntry struct {
	ID              uuid.UUID    `json:"id"`
	Date            Day          `json:"date"`
	ActivityType    ActivityType `json:"activity_type"`
	DurationMinutes float64      `json:"duration_minutes"`
	Notes           string       `json:"notes,omitempty"`
}

// NewExerciseEntry creates an exercise entry with a generated UUID.
func NewExerciseEntry(date Day, activity ActivityType, minutes float64) *ExerciseEntry {
	return &ExerciseEntry{
		ID:              uuid.New(),
		Date:            date,
		ActivityType:    activity,
		DurationMinutes: minutes,
	}
}

// WithNotes sets notes on the entry.
func (e *ExerciseEntry) WithNotes(notes string) *ExerciseEntry {
	e.Notes = notes
	return e
}

// Validate checks the entry's invariants.
func (e *ExerciseEntry) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("exercise entry: date is required")
	}
	if _, err := ParseActivityType(string(e.ActivityType)); err != nil {
		return fmt.Errorf("exercise entry: %w", err)
	}
	if e.DurationMinutes < 0 {
		return fmt.Errorf("exercise entry: duration must be non-negative, got %.1f", e.DurationMinutes)
	}
	if e.DurationMinutes > 24*60 {
		return fmt.Errorf("exercise entry: duration cannot exceed 24 hours, got %.1f minutes", e.DurationMinutes)
	}
	return nil
}
