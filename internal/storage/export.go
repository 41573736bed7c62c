// ABOUTME: Export and import functionality for coaching history.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/coach/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportJSON exports a user's state and history as JSON.
func ExportJSON(repo Repository, userID string) ([]byte, error) {
	data, err := repo.GetAllData(userID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON imports a user from JSON bytes.
func ImportJSON(repo Repository, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return repo.ImportData(&data)
}

// ExportYAML exports a user's history as YAML, one compact entry per week.
func ExportYAML(repo Repository, userID string) ([]byte, error) {
	data, err := repo.GetAllData(userID)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string     `yaml:"version"`
		ExportedAt string     `yaml:"exported_at"`
		Tool       string     `yaml:"tool"`
		User       yamlUser   `yaml:"user"`
		Weeks      []yamlWeek `yaml:"weeks"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		User: yamlUser{
			ID:          data.State.UserID,
			StartDate:   data.State.StartDate.Format(models.WeekStartLayout),
			Week:        data.State.WeekNumber,
			Phase:       string(data.State.Phase),
			WeekInPhase: data.State.WeekInPhase,
			Program:     data.State.Program,
		},
		Weeks: make([]yamlWeek, 0, len(data.Snapshots)),
	}

	for _, s := range data.Snapshots {
		yw := yamlWeek{
			Week:        s.Week,
			WeekStart:   s.WeekStart,
			Phase:       string(s.Phase.Name),
			Completed:   s.Completion.Raw,
			Target:      s.Program.SessionsPerWeek,
			Decision:    string(s.Decision.Type),
			Reason:      s.Decision.Reason,
			NextProgram: s.NextWeekProgram.String(),
			SafetyNotes: s.SafetyNotes,
		}
		if s.ProgramChange.Occurred {
			yw.Change = s.ProgramChange.Description
		}
		yamlData.Weeks = append(yamlData.Weeks, yw)
	}

	return yaml.Marshal(yamlData)
}

type yamlUser struct {
	ID          string               `yaml:"id"`
	StartDate   string               `yaml:"start_date"`
	Week        int                  `yaml:"week"`
	Phase       string               `yaml:"phase"`
	WeekInPhase int                  `yaml:"week_in_phase"`
	Program     models.ProgramConfig `yaml:"program"`
}

type yamlWeek struct {
	Week        int      `yaml:"week"`
	WeekStart   string   `yaml:"week_start"`
	Phase       string   `yaml:"phase"`
	Completed   int      `yaml:"completed"`
	Target      int      `yaml:"target"`
	Decision    string   `yaml:"decision"`
	Reason      string   `yaml:"reason"`
	Change      string   `yaml:"change,omitempty"`
	NextProgram string   `yaml:"next_program"`
	SafetyNotes []string `yaml:"safety_notes,omitempty"`
}

// ExportMarkdown exports a user's history as a Markdown table.
// A non-nil since drops weeks that started before it.
func ExportMarkdown(repo Repository, userID string, since *time.Time) (string, error) {
	data, err := repo.GetAllData(userID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Coach Export - %s - %s\n\n", userID, now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Current phase: **%s** (week %d), program: %s\n\n",
		data.State.Phase, data.State.WeekInPhase, data.State.Program))

	sb.WriteString("## Weeks\n\n")
	sb.WriteString("| Week | Start | Phase | Done | Decision | Reason | Next program |\n")
	sb.WriteString("|------|-------|-------|------|----------|--------|--------------|\n")
	for _, s := range data.Snapshots {
		if since != nil {
			start, err := time.Parse(models.WeekStartLayout, s.WeekStart)
			if err == nil && start.Before(*since) {
				continue
			}
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d/%d | %s | %s | %s |\n",
			s.Week, s.WeekStart, s.Phase.Name,
			s.Completion.Raw, s.Program.SessionsPerWeek,
			s.Decision.Type, s.Decision.Reason, s.NextWeekProgram))
	}

	return sb.String(), nil
}
