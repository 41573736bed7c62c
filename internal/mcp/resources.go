// ABOUTME: MCP resource implementations for the coaching engine.
// ABOUTME: Provides coach://users and coach://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/coach/internal/models"
)

func (s *Server) registerResources() {
	// coach://users - every coached user with their week and phase
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "coach://users",
		Name:        "Coached Users",
		Description: "Every user with their current week, phase, and program",
		MIMEType:    "application/json",
	}, s.handleUsersResource)

	// coach://summary - latest decision per user
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "coach://summary",
		Name:        "Coaching Summary",
		Description: "The latest weekly decision and next program for each user",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

type userSummary struct {
	UserID      string               `json:"user_id"`
	Week        int                  `json:"week"`
	Phase       models.Phase         `json:"phase"`
	Program     models.ProgramConfig `json:"program"`
	Adherence   float64              `json:"adherence_rate"`
	LastWeek    int                  `json:"last_week,omitempty"`
	Decision    models.Decision      `json:"decision,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	SafetyNotes []string             `json:"safety_notes,omitempty"`
}

// Resource handlers

func (s *Server) handleUsersResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	users, err := s.svc.Users()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		st, err := s.svc.Status(u)
		if err != nil {
			return nil, fmt.Errorf("failed to get state for %s: %w", u, err)
		}
		out = append(out, userSummary{
			UserID:    u,
			Week:      st.WeekNumber,
			Phase:     st.Phase,
			Program:   st.Program,
			Adherence: st.AdherenceRate,
		})
	}

	return jsonResource("coach://users", map[string]interface{}{
		"users": out,
		"count": len(out),
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	users, err := s.svc.Users()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		st, err := s.svc.Status(u)
		if err != nil {
			return nil, fmt.Errorf("failed to get state for %s: %w", u, err)
		}
		sum := userSummary{
			UserID:    u,
			Week:      st.WeekNumber,
			Phase:     st.Phase,
			Program:   st.Program,
			Adherence: st.AdherenceRate,
		}
		latest, err := s.svc.History(u, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to list history for %s: %w", u, err)
		}
		if len(latest) == 1 {
			sum.LastWeek = latest[0].Week
			sum.Decision = latest[0].Decision.Type
			sum.Reason = latest[0].Decision.Reason
			sum.SafetyNotes = latest[0].SafetyNotes
		}
		out = append(out, sum)
	}

	return jsonResource("coach://summary", map[string]interface{}{
		"users": out,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
