// ABOUTME: MCP tool implementations for the coaching engine.
// ABOUTME: Onboarding, weekly check-ins, state, plans, history, and preferences.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/coach/internal/models"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "init_user",
		Description: "Start coaching a new user in the onboarding phase",
	}, s.handleInitUser)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_week",
		Description: "Record a finished week (sessions done, check-in, energy, pain) and get the weekly snapshot",
	}, s.handleRecordWeek)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_state",
		Description: "Get a user's current phase, program, and adherence",
	}, s.handleGetState)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_plan",
		Description: "Get the sessions for the upcoming week or regenerate a past week's sessions",
	}, s.handleGetPlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_history",
		Description: "List a user's weekly snapshots, oldest first",
	}, s.handleListHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_preferences",
		Description: "Change a user's strength template, session style, and equipment",
	}, s.handleSetPreferences)
}

// Tool input/output types

type initUserInput struct {
	UserID    string   `json:"user_id" jsonschema:"User identifier"`
	StartDate string   `json:"start_date,omitempty" jsonschema:"First week start (YYYY-MM-DD), defaults to today"`
	Template  string   `json:"template,omitempty" jsonschema:"full_body, upper_lower, or push_pull"`
	Style     string   `json:"style,omitempty" jsonschema:"balanced, strength_focus, or cardio_focus"`
	Equipment []string `json:"equipment,omitempty" jsonschema:"Available equipment (dumbbell, kettlebell, band, bench, pullup_bar)"`
}

type userInput struct {
	UserID string `json:"user_id" jsonschema:"User identifier"`
}

type recordWeekInput struct {
	UserID       string   `json:"user_id" jsonschema:"User identifier"`
	Sessions     int      `json:"sessions" jsonschema:"Sessions completed this week"`
	Sleep        string   `json:"sleep,omitempty" jsonschema:"poor, fair, good, or great"`
	Stress       string   `json:"stress,omitempty" jsonschema:"low, moderate, high, or overwhelming"`
	Readiness    string   `json:"readiness,omitempty" jsonschema:"strong, good, okay, or drag"`
	Energy       string   `json:"energy,omitempty" jsonschema:"low, moderate, or high"`
	Eating       string   `json:"eating,omitempty" jsonschema:"enough, uncertain, or likely_insufficient"`
	PainFlags    []string `json:"pain_flags,omitempty" jsonschema:"Body areas that hurt this week"`
	ActiveInjury bool     `json:"active_injury,omitempty" jsonschema:"True if an injury is currently active"`
}

type getPlanInput struct {
	UserID string `json:"user_id" jsonschema:"User identifier"`
	Week   int    `json:"week,omitempty" jsonschema:"Week number, defaults to the upcoming week"`
}

type listHistoryInput struct {
	UserID string `json:"user_id" jsonschema:"User identifier"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Only the latest N weeks (default all)"`
}

type setPreferencesInput struct {
	UserID    string   `json:"user_id" jsonschema:"User identifier"`
	Template  string   `json:"template,omitempty" jsonschema:"full_body, upper_lower, or push_pull"`
	Style     string   `json:"style,omitempty" jsonschema:"balanced, strength_focus, or cardio_focus"`
	Equipment []string `json:"equipment,omitempty" jsonschema:"Available equipment"`
}

type stateOutput struct {
	UserID           string               `json:"user_id"`
	Week             int                  `json:"week"`
	Phase            models.Phase         `json:"phase"`
	WeekInPhase      int                  `json:"week_in_phase"`
	Program          models.ProgramConfig `json:"program"`
	AdherenceRate    float64              `json:"adherence_rate"`
	FatigueScore     float64              `json:"fatigue_score"`
	EnergyContext    models.EnergyContext `json:"energy_context"`
	ActiveInjury     bool                 `json:"active_injury"`
	CurrentPainFlags []string             `json:"current_pain_flags,omitempty"`
	Preferences      models.Preferences   `json:"preferences"`
	Message          string               `json:"message"`
}

type planOutput struct {
	UserID                string           `json:"user_id"`
	Week                  int              `json:"week"`
	Sessions              []models.Session `json:"sessions"`
	MinimumViableSessions []models.Session `json:"minimum_viable_sessions"`
}

type historyOutput struct {
	UserID    string                   `json:"user_id"`
	Snapshots []*models.WeeklySnapshot `json:"snapshots"`
	Message   string                   `json:"message,omitempty"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

func toStateOutput(st *models.TrainingState, msg string) stateOutput {
	return stateOutput{
		UserID:           st.UserID,
		Week:             st.WeekNumber,
		Phase:            st.Phase,
		WeekInPhase:      st.WeekInPhase,
		Program:          st.Program,
		AdherenceRate:    st.AdherenceRate,
		FatigueScore:     st.FatigueScore,
		EnergyContext:    st.EnergyContext,
		ActiveInjury:     st.ActiveInjury,
		CurrentPainFlags: st.CurrentPainFlags,
		Preferences:      st.Preferences,
		Message:          msg,
	}
}

// jsonResult returns v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

// Tool handlers

func (s *Server) handleInitUser(ctx context.Context, req *mcp.CallToolRequest, input initUserInput) (*mcp.CallToolResult, stateOutput, error) {
	prefs, err := models.ParsePreferences(input.Template, input.Style, input.Equipment)
	if err != nil {
		return nil, stateOutput{}, fmt.Errorf("invalid preferences: %w", err)
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if input.StartDate != "" {
		start, err = time.Parse(models.WeekStartLayout, input.StartDate)
		if err != nil {
			return nil, stateOutput{}, fmt.Errorf("invalid start_date %q: use YYYY-MM-DD", input.StartDate)
		}
	}

	st, err := s.svc.Init(input.UserID, start, prefs)
	if err != nil {
		return nil, stateOutput{}, fmt.Errorf("failed to init user: %w", err)
	}

	return nil, toStateOutput(st, fmt.Sprintf("Started coaching %s: %s", st.UserID, st.Program)), nil
}

func (s *Server) handleRecordWeek(ctx context.Context, req *mcp.CallToolRequest, input recordWeekInput) (*mcp.CallToolResult, any, error) {
	checkIn, err := models.ParseCheckIn(input.Sleep, input.Stress, input.Readiness)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid check-in: %w", err)
	}
	energy, err := models.ParseEnergyCheck(input.Energy, input.Eating)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid energy check: %w", err)
	}

	snap, err := s.svc.RecordWeek(ctx, input.UserID, models.WeeklyInput{
		RawSessions:  input.Sessions,
		CheckIn:      checkIn,
		EnergyCheck:  energy,
		PainFlags:    input.PainFlags,
		ActiveInjury: input.ActiveInjury,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record week: %w", err)
	}

	return jsonResult(snap)
}

func (s *Server) handleGetState(ctx context.Context, req *mcp.CallToolRequest, input userInput) (*mcp.CallToolResult, stateOutput, error) {
	st, err := s.svc.Status(input.UserID)
	if err != nil {
		return nil, stateOutput{}, fmt.Errorf("failed to get state: %w", err)
	}
	msg := fmt.Sprintf("Week %d, %s phase (week %d), program %s", st.WeekNumber, st.Phase, st.WeekInPhase, st.Program)
	return nil, toStateOutput(st, msg), nil
}

func (s *Server) handleGetPlan(ctx context.Context, req *mcp.CallToolRequest, input getPlanInput) (*mcp.CallToolResult, any, error) {
	plan, err := s.svc.Plan(input.UserID, input.Week)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build plan: %w", err)
	}

	week := input.Week
	if week == 0 {
		st, err := s.svc.Status(input.UserID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get state: %w", err)
		}
		week = st.WeekNumber
	}

	return jsonResult(planOutput{
		UserID:                input.UserID,
		Week:                  week,
		Sessions:              plan.Sessions,
		MinimumViableSessions: plan.MinimumViableSessions,
	})
}

func (s *Server) handleListHistory(ctx context.Context, req *mcp.CallToolRequest, input listHistoryInput) (*mcp.CallToolResult, any, error) {
	snaps, err := s.svc.History(input.UserID, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list history: %w", err)
	}

	out := historyOutput{UserID: input.UserID, Snapshots: snaps}
	if len(snaps) == 0 {
		out.Message = "No weeks recorded yet."
	}
	return jsonResult(out)
}

func (s *Server) handleSetPreferences(ctx context.Context, req *mcp.CallToolRequest, input setPreferencesInput) (*mcp.CallToolResult, simpleOutput, error) {
	prefs, err := models.ParsePreferences(input.Template, input.Style, input.Equipment)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("invalid preferences: %w", err)
	}
	if err := s.svc.SetPreferences(ctx, input.UserID, prefs); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to set preferences: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Preferences for %s: %s, %s", input.UserID, prefs.Template, prefs.Style),
	}, nil
}
