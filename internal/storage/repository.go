// ABOUTME: Repository interface for sleep and exercise data storage.
// ABOUTME: Defines the contract shared by the JSON file and SQLite backends.
package storage

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/harperreed/sleepcoach/internal/models"
)

// ErrCorrupt marks stored data that could not be parsed. Callers get an
// empty state alongside it and are expected to log and continue.
var ErrCorrupt = errors.New("stored data is corrupt")

// ErrInvalidUser marks a username that cannot name a storage bucket.
var ErrInvalidUser = errors.New("invalid username")

// Repository defines the storage interface for per-user data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Load returns the full state for a user. A user with nothing
	// stored yet yields an empty state and a nil error.
	Load(user string) (*models.UserData, error)

	// SaveSleep upserts a sleep entry keyed by date; the last write
	// for a date wins.
	SaveSleep(user string, e *models.SleepEntry) error
	DeleteSleep(user string, date models.Day) error

	// AddExercise appends a session; multiple per date are fine.
	AddExercise(user string, e *models.ExerciseEntry) error
	DeleteExercise(user string, id uuid.UUID) error

	SetGoal(user string, g models.Goal) error

	// Users lists every user with stored data.
	Users() ([]string, error)

	Close() error
}

var userPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,63}$`)

// validateUser rejects names that could escape the storage namespace.
func validateUser(user string) error {
	if !userPattern.MatchString(user) {
		return fmt.Errorf("%w: %q", ErrInvalidUser, user)
	}
	return nil
}
