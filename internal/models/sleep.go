// ABOUTME: SleepEntry model for nightly sleep logging.
// ABOUTME: One entry per date per user; date is the natural key, last write wins.
package models

import "fmt"

// Sleep quality bounds. Quality is an ordinal score from worst to best.
const (
	QualityMin = 1
	QualityMax = 5
)

// SleepEntry represents one night of logged sleep.
type SleepEntry struct {
	Date       Day     `json:"date"`
	HoursSlept float64 `json:"hours_slept"`
	Quality    int     `json:"quality"`
	Notes      string  `json:"notes,omitempty"`
}

// NewSleepEntry creates a sleep entry for the given date.
func NewSleepEntry(date Day, hours float64, quality int) *SleepEntry {
	return &SleepEntry{
		Date:       date,
		HoursSlept: hours,
		Quality:    quality,
	}
}

// WithNotes sets notes on the entry.
func (e *SleepEntry) WithNotes(notes string) *SleepEntry {
	e.Notes = notes
	return e
}

// Validate checks the entry's invariants.
func (e *SleepEntry) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("sleep entry: date is required")
	}
	if e.HoursSlept < 0 {
		return fmt.Errorf("sleep entry: hours slept must be non-negative, got %.2f", e.HoursSlept)
	}
	if e.HoursSlept > 24 {
		return fmt.Errorf("sleep entry: hours slept cannot exceed 24, got %.2f", e.HoursSlept)
	}
	if e.Quality < QualityMin || e.Quality > QualityMax {
		return fmt.Errorf("sleep entry: quality must be between %d and %d, got %d",
			QualityMin, QualityMax, e.Quality)
	}
	return nil
}
