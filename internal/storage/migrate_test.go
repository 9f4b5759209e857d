// ABOUTME: Tests for cross-backend data migration.
// ABOUTME: Verifies all users, entries, and goals survive a backend move.
package storage

import (
	"testing"

	"github.com/harperreed/sleepcoach/internal/models"
)

func TestMigrateJSONToSQLite(t *testing.T) {
	src := setupJSONStore(t)
	dst := setupSQLiteStore(t)

	// Two users with different amounts of data
	for _, day := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
		if err := src.SaveSleep("alice", models.NewSleepEntry(mustDay(t, day), 7.5, 4)); err != nil {
			t.Fatalf("SaveSleep failed: %v", err)
		}
	}
	if err := src.AddExercise("alice", models.NewExerciseEntry(mustDay(t, "2024-03-02"), models.ActivityRunning, 30)); err != nil {
		t.Fatalf("AddExercise failed: %v", err)
	}
	if err := src.SetGoal("alice", models.Goal{TargetHours: 8}); err != nil {
		t.Fatalf("SetGoal failed: %v", err)
	}
	if err := src.SaveSleep("bob", models.NewSleepEntry(mustDay(t, "2024-03-01"), 6, 2)); err != nil {
		t.Fatalf("SaveSleep failed: %v", err)
	}

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}

	if summary.Users != 2 || summary.Sleep != 4 || summary.Exercise != 1 || summary.Goals != 1 {
		t.Errorf("summary = %+v, want {Users:2 Sleep:4 Exercise:1 Goals:1}", summary)
	}

	alice, err := dst.Load("alice")
	if err != nil {
		t.Fatalf("Load alice from destination failed: %v", err)
	}
	if len(alice.Sleep) != 3 || len(alice.Exercise) != 1 {
		t.Errorf("alice migrated %d sleep, %d exercise; want 3, 1",
			len(alice.Sleep), len(alice.Exercise))
	}
	if alice.Goal == nil || alice.Goal.TargetHours != 8 {
		t.Errorf("alice's goal did not migrate: %+v", alice.Goal)
	}

	bob, err := dst.Load("bob")
	if err != nil {
		t.Fatalf("Load bob from destination failed: %v", err)
	}
	if len(bob.Sleep) != 1 {
		t.Errorf("bob migrated %d sleep entries, want 1", len(bob.Sleep))
	}
}

func TestMigrateSQLiteToJSON(t *testing.T) {
	src := setupSQLiteStore(t)
	dst := setupJSONStore(t)

	if err := src.SaveSleep("carol", models.NewSleepEntry(mustDay(t, "2024-03-01"), 8, 5)); err != nil {
		t.Fatalf("SaveSleep failed: %v", err)
	}

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Users != 1 || summary.Sleep != 1 {
		t.Errorf("summary = %+v, want 1 user, 1 sleep entry", summary)
	}

	data, err := dst.Load("carol")
	if err != nil {
		t.Fatalf("Load from destination failed: %v", err)
	}
	if len(data.Sleep) != 1 || data.Sleep[0].HoursSlept != 8 {
		t.Errorf("migrated entry = %+v, want 8h", data.Sleep)
	}
}

func TestMigrateEmptySource(t *testing.T) {
	src := setupJSONStore(t)
	dst := setupSQLiteStore(t)

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData on empty source failed: %v", err)
	}
	if summary.Users != 0 {
		t.Errorf("summary = %+v, want zero counts", summary)
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	got, err := IsDirNonEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirNonEmpty failed: %v", err)
	}
	if got {
		t.Error("empty dir reported non-empty")
	}

	if _, err := OpenJSON(dir); err != nil {
		t.Fatalf("OpenJSON failed: %v", err)
	}

	got, err = IsDirNonEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirNonEmpty failed: %v", err)
	}
	if !got {
		t.Error("dir with users subdir reported empty")
	}

	got, err = IsDirNonEmpty(dir + "/missing")
	if err != nil {
		t.Fatalf("IsDirNonEmpty on missing dir failed: %v", err)
	}
	if got {
		t.Error("missing dir reported non-empty")
	}
}
