// ABOUTME: Export functionality for per-user sleep and exercise data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/sleepcoach/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for one user's data.
type ExportData struct {
	Version    string                  `json:"version" yaml:"version"`
	ExportedAt time.Time               `json:"exported_at" yaml:"exported_at"`
	Tool       string                  `json:"tool" yaml:"tool"`
	User       string                  `json:"user" yaml:"user"`
	Sleep      []*models.SleepEntry    `json:"sleep" yaml:"sleep"`
	Exercise   []*models.ExerciseEntry `json:"exercise" yaml:"exercise"`
	Goal       *models.Goal            `json:"goal,omitempty" yaml:"goal,omitempty"`
}

// Export gathers one user's full data for download.
func Export(repo Repository, user string) (*ExportData, error) {
	data, err := repo.Load(user)
	if err != nil {
		return nil, fmt.Errorf("load user data: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "sleepcoach",
		User:       user,
		Sleep:      data.Sleep,
		Exercise:   data.Exercise,
		Goal:       data.Goal,
	}, nil
}

// JSON renders the export as indented JSON.
func (e *ExportData) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// YAML renders the export in a YAML-friendly shape.
func (e *ExportData) YAML() ([]byte, error) {
	out := struct {
		Version    string         `yaml:"version"`
		ExportedAt string         `yaml:"exported_at"`
		Tool       string         `yaml:"tool"`
		User       string         `yaml:"user"`
		Sleep      []yamlSleep    `yaml:"sleep"`
		Exercise   []yamlExercise `yaml:"exercise"`
		Goal       *yamlGoal      `yaml:"goal,omitempty"`
	}{
		Version:    e.Version,
		ExportedAt: e.ExportedAt.Format(time.RFC3339),
		Tool:       e.Tool,
		User:       e.User,
		Sleep:      make([]yamlSleep, 0, len(e.Sleep)),
		Exercise:   make([]yamlExercise, 0, len(e.Exercise)),
	}

	for _, s := range e.Sleep {
		out.Sleep = append(out.Sleep, yamlSleep{
			Date:       s.Date.String(),
			HoursSlept: s.HoursSlept,
			Quality:    s.Quality,
			Notes:      s.Notes,
		})
	}
	for _, ex := range e.Exercise {
		out.Exercise = append(out.Exercise, yamlExercise{
			ID:              ex.ID.String()[:8],
			Date:            ex.Date.String(),
			Activity:        string(ex.ActivityType),
			DurationMinutes: ex.DurationMinutes,
			Notes:           ex.Notes,
		})
	}
	if e.Goal != nil {
		out.Goal = &yamlGoal{
			TargetHours:   e.Goal.TargetHours,
			TargetQuality: e.Goal.TargetQuality,
		}
	}

	return yaml.Marshal(out)
}

type yamlSleep struct {
	Date       string  `yaml:"date"`
	HoursSlept float64 `yaml:"hours_slept"`
	Quality    int     `yaml:"quality"`
	Notes      string  `yaml:"notes,omitempty"`
}

type yamlExercise struct {
	ID              string  `yaml:"id"`
	Date            string  `yaml:"date"`
	Activity        string  `yaml:"activity"`
	DurationMinutes float64 `yaml:"duration_minutes"`
	Notes           string  `yaml:"notes,omitempty"`
}

type yamlGoal struct {
	TargetHours   float64 `yaml:"target_hours"`
	TargetQuality float64 `yaml:"target_quality"`
}

// Markdown renders the export as date-sorted tables.
func (e *ExportData) Markdown() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Sleep Export - %s\n\n", e.ExportedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", e.ExportedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("User: %s\n\n", e.User))

	if e.Goal != nil && e.Goal.IsSet() {
		sb.WriteString("## Goal\n\n")
		sb.WriteString(fmt.Sprintf("- Target hours: %.1f\n", e.Goal.TargetHours))
		sb.WriteString(fmt.Sprintf("- Target quality: %.1f\n\n", e.Goal.TargetQuality))
	}

	sb.WriteString("## Sleep\n\n")
	sb.WriteString("| Date | Hours | Quality | Notes |\n")
	sb.WriteString("|------|-------|---------|-------|\n")
	for _, s := range e.Sleep {
		sb.WriteString(fmt.Sprintf("| %s | %.1f | %d | %s |\n",
			s.Date, s.HoursSlept, s.Quality, s.Notes))
	}
	sb.WriteString("\n")

	if len(e.Exercise) > 0 {
		sb.WriteString("## Exercise\n\n")
		sb.WriteString("| Date | Activity | Duration | Notes |\n")
		sb.WriteString("|------|----------|----------|-------|\n")
		for _, ex := range e.Exercise {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.0f min | %s |\n",
				ex.Date, ex.ActivityType.Label(), ex.DurationMinutes, ex.Notes))
		}
	}

	return sb.String()
}
