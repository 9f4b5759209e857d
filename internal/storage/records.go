// ABOUTME: Sleep, exercise, and goal CRUD for the SQLite backend.
// ABOUTME: Implements Repository with upsert-by-date sleep semantics.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/sleepcoach/internal/models"
)

// Load returns the full state for a user, sleep date-ordered.
func (s *SQLiteStore) Load(user string) (*models.UserData, error) {
	if err := validateUser(user); err != nil {
		return models.NewUserData(), err
	}

	data := models.NewUserData()

	sleep, err := s.loadSleep(user)
	if err != nil {
		return models.NewUserData(), err
	}
	data.Sleep = sleep

	exercise, err := s.loadExercise(user)
	if err != nil {
		return models.NewUserData(), err
	}
	data.Exercise = exercise

	goal, err := s.loadGoal(user)
	if err != nil {
		return models.NewUserData(), err
	}
	data.Goal = goal

	return data, nil
}

func (s *SQLiteStore) loadSleep(user string) ([]*models.SleepEntry, error) {
	rows, err := s.db.Query(`
		SELECT date, hours_slept, quality, notes
		FROM sleep_entries
		WHERE user = ?
		ORDER BY date
	`, user)
	if err != nil {
		return nil, fmt.Errorf("query sleep entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.SleepEntry{}
	for rows.Next() {
		var e models.SleepEntry
		var dateStr string
		var notes sql.NullString

		if err := rows.Scan(&dateStr, &e.HoursSlept, &e.Quality, &notes); err != nil {
			return nil, fmt.Errorf("scan sleep entry: %w", err)
		}
		e.Date, err = models.ParseDay(dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: sleep date for %s: %v", ErrCorrupt, user, err)
		}
		if notes.Valid {
			e.Notes = notes.String
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) loadExercise(user string) ([]*models.ExerciseEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, date, activity_type, duration_minutes, notes
		FROM exercise_entries
		WHERE user = ?
		ORDER BY date, created_at
	`, user)
	if err != nil {
		return nil, fmt.Errorf("query exercise entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.ExerciseEntry{}
	for rows.Next() {
		var e models.ExerciseEntry
		var idStr, dateStr, activity string
		var notes sql.NullString

		if err := rows.Scan(&idStr, &dateStr, &activity, &e.DurationMinutes, &notes); err != nil {
			return nil, fmt.Errorf("scan exercise entry: %w", err)
		}
		e.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("%w: exercise id for %s: %v", ErrCorrupt, user, err)
		}
		e.Date, err = models.ParseDay(dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: exercise date for %s: %v", ErrCorrupt, user, err)
		}
		e.ActivityType = models.ActivityType(activity)
		if notes.Valid {
			e.Notes = notes.String
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) loadGoal(user string) (*models.Goal, error) {
	var g models.Goal
	err := s.db.QueryRow(`
		SELECT target_hours, target_quality FROM goals WHERE user = ?
	`, user).Scan(&g.TargetHours, &g.TargetQuality)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query goal: %w", err)
	}
	return &g, nil
}

// SaveSleep upserts a sleep entry by date. The last write for a date wins.
func (s *SQLiteStore) SaveSleep(user string, e *models.SleepEntry) error {
	if err := validateUser(user); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO sleep_entries (user, date, hours_slept, quality, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user, date) DO UPDATE SET
			hours_slept = excluded.hours_slept,
			quality = excluded.quality,
			notes = excluded.notes
	`, user, e.Date.String(), e.HoursSlept, e.Quality, e.Notes)
	if err != nil {
		return fmt.Errorf("save sleep entry: %w", err)
	}
	return nil
}

// DeleteSleep removes the entry for a date.
func (s *SQLiteStore) DeleteSleep(user string, date models.Day) error {
	if err := validateUser(user); err != nil {
		return err
	}

	result, err := s.db.Exec(
		"DELETE FROM sleep_entries WHERE user = ? AND date = ?",
		user, date.String(),
	)
	if err != nil {
		return fmt.Errorf("delete sleep entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sleep entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("not found: %s", date)
	}
	return nil
}

// AddExercise appends a session, assigning an ID if missing.
func (s *SQLiteStore) AddExercise(user string, e *models.ExerciseEntry) error {
	if err := validateUser(user); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	_, err := s.db.Exec(`
		INSERT INTO exercise_entries (id, user, date, activity_type, duration_minutes, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID.String(), user, e.Date.String(), string(e.ActivityType), e.DurationMinutes, e.Notes)
	if err != nil {
		return fmt.Errorf("add exercise entry: %w", err)
	}
	return nil
}

// DeleteExercise removes a session by ID.
func (s *SQLiteStore) DeleteExercise(user string, id uuid.UUID) error {
	if err := validateUser(user); err != nil {
		return err
	}

	result, err := s.db.Exec(
		"DELETE FROM exercise_entries WHERE user = ? AND id = ?",
		user, id.String(),
	)
	if err != nil {
		return fmt.Errorf("delete exercise entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete exercise entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("not found: %s", id)
	}
	return nil
}

// SetGoal overwrites the user's goal.
func (s *SQLiteStore) SetGoal(user string, g models.Goal) error {
	if err := validateUser(user); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO goals (user, target_hours, target_quality)
		VALUES (?, ?, ?)
		ON CONFLICT(user) DO UPDATE SET
			target_hours = excluded.target_hours,
			target_quality = excluded.target_quality
	`, user, g.TargetHours, g.TargetQuality)
	if err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	return nil
}

// Users lists users with any stored data, sorted by name.
func (s *SQLiteStore) Users() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT user FROM sleep_entries
		UNION SELECT user FROM exercise_entries
		UNION SELECT user FROM goals
		ORDER BY user
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
