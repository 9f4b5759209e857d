// ABOUTME: Tests for the JSON file storage backend.
// ABOUTME: Verifies on-disk schema, corrupt-file recovery, and file hygiene.
package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/sleepcoach/internal/models"
)

func TestJSONFileSchema(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenJSON(dir)
	if err != nil {
		t.Fatalf("OpenJSON failed: %v", err)
	}

	d := mustDay(t, "2024-03-05")
	if err := s.SaveSleep("alice", models.NewSleepEntry(d, 7.5, 4).WithNotes("ok")); err != nil {
		t.Fatalf("SaveSleep failed: %v", err)
	}
	if err := s.AddExercise("alice", models.NewExerciseEntry(d, models.ActivityRunning, 30)); err != nil {
		t.Fatalf("AddExercise failed: %v", err)
	}
	if err := s.SetGoal("alice", models.Goal{TargetHours: 8, TargetQuality: 4}); err != nil {
		t.Fatalf("SetGoal failed: %v", err)
	}

	path := filepath.Join(dir, "users", "alice.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading user file failed: %v", err)
	}

	// The file shape is the documented schema, nothing extra
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(raw, &shape); err != nil {
		t.Fatalf("user file is not valid JSON: %v", err)
	}
	for _, key := range []string{"sleep", "exercise", "goal"} {
		if _, ok := shape[key]; !ok {
			t.Errorf("user file missing %q key", key)
		}
	}
	if len(shape) != 3 {
		t.Errorf("user file has %d top-level keys, want 3: %v", len(shape), shape)
	}

	// Dates serialize as YYYY-MM-DD strings
	var parsed struct {
		Sleep []struct {
			Date string `json:"date"`
		} `json:"sleep"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal sleep dates: %v", err)
	}
	if len(parsed.Sleep) != 1 || parsed.Sleep[0].Date != "2024-03-05" {
		t.Errorf("serialized date = %+v, want 2024-03-05", parsed.Sleep)
	}
}

func TestJSONFileSortedByDate(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenJSON(dir)
	if err != nil {
		t.Fatalf("OpenJSON failed: %v", err)
	}

	for _, day := range []string{"2024-03-09", "2024-03-02", "2024-03-05"} {
		if err := s.SaveSleep("alice", models.NewSleepEntry(mustDay(t, day), 7, 3)); err != nil {
			t.Fatalf("SaveSleep failed: %v", err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, "users", "alice.json"))
	if err != nil {
		t.Fatalf("reading user file failed: %v", err)
	}
	var parsed struct {
		Sleep []struct {
			Date string `json:"date"`
		} `json:"sleep"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	want := []string{"2024-03-02", "2024-03-05", "2024-03-09"}
	for i, w := range want {
		if parsed.Sleep[i].Date != w {
			t.Errorf("sleep[%d] in file = %s, want %s", i, parsed.Sleep[i].Date, w)
		}
	}
}

func TestJSONCorruptFileRecovers(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenJSON(dir)
	if err != nil {
		t.Fatalf("OpenJSON failed: %v", err)
	}

	path := filepath.Join(dir, "users", "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("writing corrupt file failed: %v", err)
	}

	data, err := s.Load("broken")
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load error = %v, want ErrCorrupt", err)
	}
	if data == nil || len(data.Sleep) != 0 || len(data.Exercise) != 0 {
		t.Errorf("corrupt load should yield empty state, got %+v", data)
	}

	// Writes proceed from the empty state
	d := mustDay(t, "2024-03-05")
	if err := s.SaveSleep("broken", models.NewSleepEntry(d, 7, 3)); err != nil {
		t.Fatalf("SaveSleep after corruption failed: %v", err)
	}

	data, err = s.Load("broken")
	if err != nil {
		t.Fatalf("Load after rewrite failed: %v", err)
	}
	if len(data.Sleep) != 1 {
		t.Errorf("expected 1 entry after rewrite, got %d", len(data.Sleep))
	}
}

func TestJSONNullArraysTolerated(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenJSON(dir)
	if err != nil {
		t.Fatalf("OpenJSON failed: %v", err)
	}

	path := filepath.Join(dir, "users", "edited.json")
	if err := os.WriteFile(path, []byte(`{"sleep": null, "exercise": null}`), 0600); err != nil {
		t.Fatalf("writing edited file failed: %v", err)
	}

	data, err := s.Load("edited")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if data.Sleep == nil || data.Exercise == nil {
		t.Error("null arrays should load as empty slices")
	}
}

func TestJSONFilePermissions(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenJSON(dir)
	if err != nil {
		t.Fatalf("OpenJSON failed: %v", err)
	}

	d := mustDay(t, "2024-03-05")
	if err := s.SaveSleep("alice", models.NewSleepEntry(d, 7, 3)); err != nil {
		t.Fatalf("SaveSleep failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "users", "alice.json"))
	if err != nil {
		t.Fatalf("stat user file failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("user file mode = %o, want 0600", perm)
	}
}

func TestJSONUsersSkipsStrays(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenJSON(dir)
	if err != nil {
		t.Fatalf("OpenJSON failed: %v", err)
	}

	usersDir := filepath.Join(dir, "users")
	if err := os.WriteFile(filepath.Join(usersDir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatalf("writing stray file failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(usersDir, "backup.json"), 0750); err != nil {
		t.Fatalf("creating stray dir failed: %v", err)
	}

	d := mustDay(t, "2024-03-05")
	if err := s.SaveSleep("alice", models.NewSleepEntry(d, 7, 3)); err != nil {
		t.Fatalf("SaveSleep failed: %v", err)
	}

	users, err := s.Users()
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	if len(users) != 1 || users[0] != "alice" {
		t.Errorf("Users = %v, want [alice]", users)
	}
}
