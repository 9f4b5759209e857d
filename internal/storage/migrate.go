// ABOUTME: Data migration between storage backends.
// ABOUTME: Copies sleep entries, exercise sessions, and goals per user.

package storage

import (
	"errors"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Users    int
	Sleep    int
	Exercise int
	Goals    int
}

// MigrateData copies every user's data from src to dst storage.
// The destination should be empty before calling this function;
// sleep entries that collide by date overwrite (last write wins),
// exercise sessions with duplicate IDs cause errors.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	users, err := src.Users()
	if err != nil {
		return nil, fmt.Errorf("list source users: %w", err)
	}

	summary := &MigrateSummary{}
	for _, user := range users {
		data, err := src.Load(user)
		if err != nil {
			if errors.Is(err, ErrCorrupt) {
				// Corrupt source data migrates as the empty state it
				// loads as; surface it so the operator knows.
				return nil, fmt.Errorf("source data for %q: %w", user, err)
			}
			return nil, fmt.Errorf("load user %q: %w", user, err)
		}

		for _, e := range data.Sleep {
			if err := dst.SaveSleep(user, e); err != nil {
				return nil, fmt.Errorf("migrate sleep entry %s for %q: %w", e.Date, user, err)
			}
			summary.Sleep++
		}

		for _, e := range data.Exercise {
			if err := dst.AddExercise(user, e); err != nil {
				return nil, fmt.Errorf("migrate exercise entry %s for %q: %w", e.ID, user, err)
			}
			summary.Exercise++
		}

		if data.Goal != nil {
			if err := dst.SetGoal(user, *data.Goal); err != nil {
				return nil, fmt.Errorf("migrate goal for %q: %w", user, err)
			}
			summary.Goals++
		}

		summary.Users++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
