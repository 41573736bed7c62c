// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates the embedded skill and its installation into a temp home.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSkillFSReadEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill/SKILL.md: %v", err)
	}

	contentStr := string(content)
	if !strings.HasPrefix(contentStr, "---") {
		t.Error("Expected SKILL.md to start with YAML frontmatter (---)")
	}
	for _, marker := range []string{"name: coach", "description:", "## When to use coach", "## Check-in values"} {
		if !strings.Contains(contentStr, marker) {
			t.Errorf("Expected SKILL.md to contain %q", marker)
		}
	}
}

func TestSkillReferencesEveryTool(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}

	for _, tool := range []string{"init_user", "record_week", "get_state", "get_plan", "list_history", "set_preferences"} {
		if !strings.Contains(string(content), "mcp__coach__"+tool) {
			t.Errorf("Expected embedded SKILL.md to reference mcp__coach__%s", tool)
		}
	}
}

func TestInstallSkill(t *testing.T) {
	skillSkipConfirm = true
	defer func() { skillSkipConfirm = false }()

	home := t.TempDir()
	if err := installSkill(home); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	skillPath := filepath.Join(home, ".claude", "skills", "coach", "SKILL.md")
	written, err := os.ReadFile(skillPath)
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}
	embedded, _ := skillFS.ReadFile("skill/SKILL.md")
	if string(written) != string(embedded) {
		t.Error("installed skill differs from embedded skill")
	}

	info, err := os.Stat(filepath.Dir(skillPath))
	if err != nil {
		t.Fatalf("Failed to stat skill directory: %v", err)
	}
	if info.Mode().Perm()&0700 != 0700 {
		t.Errorf("Expected directory to be rwx for owner, got %v", info.Mode())
	}
}

func TestInstallSkillOverwritesExistingFile(t *testing.T) {
	skillSkipConfirm = true
	defer func() { skillSkipConfirm = false }()

	home := t.TempDir()
	skillDir := filepath.Join(home, ".claude", "skills", "coach")
	if err := os.MkdirAll(skillDir, 0755); err != nil {
		t.Fatalf("Failed to create skill directory: %v", err)
	}
	skillPath := filepath.Join(skillDir, "SKILL.md")
	if err := os.WriteFile(skillPath, []byte("# Old Skill\nstale content"), 0644); err != nil {
		t.Fatalf("Failed to write old skill file: %v", err)
	}

	if err := installSkill(home); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	newData, err := os.ReadFile(skillPath)
	if err != nil {
		t.Fatalf("Failed to read new skill file: %v", err)
	}
	if strings.Contains(string(newData), "stale content") {
		t.Error("Old content should have been replaced")
	}
}

func TestSkillSkipConfirmFlag(t *testing.T) {
	flag := installSkillCmd.Flags().Lookup("yes")
	if flag == nil {
		t.Fatal("Expected --yes flag to be defined")
	}
	if flag.Shorthand != "y" {
		t.Errorf("Expected shorthand 'y', got %q", flag.Shorthand)
	}
	if flag.DefValue != "false" {
		t.Errorf("Expected default value 'false', got %q", flag.DefValue)
	}
}
