// ABOUTME: JSON file storage backend, one file per user.
// ABOUTME: File shape is {"sleep": [...], "exercise": [...], "goal": {...}}.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/sleepcoach/internal/models"
)

// JSONStore persists each user's data as a single JSON file under
// <dataDir>/users/<user>.json.
type JSONStore struct {
	dir string
}

// Compile-time check that JSONStore implements Repository.
var _ Repository = (*JSONStore)(nil)

// OpenJSON creates a JSON file store rooted at dataDir.
func OpenJSON(dataDir string) (*JSONStore, error) {
	dir := filepath.Join(dataDir, "users")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create users directory: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

// Close releases resources. For JSONStore this is a no-op.
func (s *JSONStore) Close() error {
	return nil
}

// userPath returns the file path for a user's data.
func (s *JSONStore) userPath(user string) string {
	return filepath.Join(s.dir, user+".json")
}

// Load reads a user's full state. A missing file is an empty state; a
// file that fails to parse yields an empty state plus an error wrapping
// ErrCorrupt so callers can warn without losing the page.
func (s *JSONStore) Load(user string) (*models.UserData, error) {
	if err := validateUser(user); err != nil {
		return models.NewUserData(), err
	}

	raw, err := os.ReadFile(s.userPath(user))
	if errors.Is(err, os.ErrNotExist) {
		return models.NewUserData(), nil
	}
	if err != nil {
		return models.NewUserData(), fmt.Errorf("read user file: %w", err)
	}

	data := models.NewUserData()
	if err := json.Unmarshal(raw, data); err != nil {
		return models.NewUserData(), fmt.Errorf("%w: %s: %v", ErrCorrupt, s.userPath(user), err)
	}

	// Tolerate hand-edited files with null arrays
	if data.Sleep == nil {
		data.Sleep = []*models.SleepEntry{}
	}
	if data.Exercise == nil {
		data.Exercise = []*models.ExerciseEntry{}
	}
	return data, nil
}

// loadForWrite loads the current state for a mutation. Corrupt files
// start over from empty, matching the load-tolerate-overwrite behavior
// of the file format.
func (s *JSONStore) loadForWrite(user string) (*models.UserData, error) {
	data, err := s.Load(user)
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return nil, err
	}
	return data, nil
}

// save writes a user's state, keeping sleep entries date-ordered.
func (s *JSONStore) save(user string, data *models.UserData) error {
	sort.SliceStable(data.Sleep, func(i, j int) bool {
		return data.Sleep[i].Date.Before(data.Sleep[j].Date)
	})

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal user data: %w", err)
	}
	if err := os.WriteFile(s.userPath(user), raw, 0600); err != nil {
		return fmt.Errorf("write user file: %w", err)
	}
	return nil
}

// SaveSleep upserts a sleep entry by date. The last write for a date wins.
func (s *JSONStore) SaveSleep(user string, e *models.SleepEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	data, err := s.loadForWrite(user)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range data.Sleep {
		if existing.Date.Equal(e.Date) {
			data.Sleep[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		data.Sleep = append(data.Sleep, e)
	}

	return s.save(user, data)
}

// DeleteSleep removes the entry for a date.
func (s *JSONStore) DeleteSleep(user string, date models.Day) error {
	data, err := s.loadForWrite(user)
	if err != nil {
		return err
	}

	kept := data.Sleep[:0]
	found := false
	for _, e := range data.Sleep {
		if e.Date.Equal(date) {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("not found: %s", date)
	}
	data.Sleep = kept

	return s.save(user, data)
}

// AddExercise appends a session, assigning an ID if missing.
func (s *JSONStore) AddExercise(user string, e *models.ExerciseEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	data, err := s.loadForWrite(user)
	if err != nil {
		return err
	}
	data.Exercise = append(data.Exercise, e)

	return s.save(user, data)
}

// DeleteExercise removes a session by ID.
func (s *JSONStore) DeleteExercise(user string, id uuid.UUID) error {
	data, err := s.loadForWrite(user)
	if err != nil {
		return err
	}

	kept := data.Exercise[:0]
	found := false
	for _, e := range data.Exercise {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("not found: %s", id)
	}
	data.Exercise = kept

	return s.save(user, data)
}

// SetGoal overwrites the user's goal.
func (s *JSONStore) SetGoal(user string, g models.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}

	data, err := s.loadForWrite(user)
	if err != nil {
		return err
	}
	data.Goal = &g

	return s.save(user, data)
}

// Users lists users that have a data file, sorted by name.
func (s *JSONStore) Users() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users directory: %w", err)
	}

	var users []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		users = append(users, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(users)
	return users, nil
}
