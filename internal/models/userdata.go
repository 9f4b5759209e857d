// ABOUTME: UserData aggregate matching the persisted per-user JSON schema.
// ABOUTME: Shape on disk: {"sleep": [...], "exercise": [...], "goal": {...}}.
package models

// UserData is the full stored state for one user.
type UserData struct {
	Sleep    []*SleepEntry    `json:"sleep"`
	Exercise []*ExerciseEntry `json:"exercise"`
	Goal     *Goal            `json:"goal,omitempty"`
}

// NewUserData returns an empty state with non-nil slices.
func NewUserData() *UserData {
	return &UserData{
		Sleep:    []*SleepEntry{},
		Exercise: []*ExerciseEntry{},
	}
}
