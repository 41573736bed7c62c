// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temporary SQLite store under XDG_DATA_HOME.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"date", "2025-01-06", false},
		{"leap day", "2024-02-29", false},
		{"day first", "06-01-2025", true},
		{"with time", "2025-01-06 08:30", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDate(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got.Format(models.WeekStartLayout) != tt.input {
				t.Errorf("parseDate(%q) = %v", tt.input, got)
			}
		})
	}
}

func TestToday(t *testing.T) {
	d := today()
	if d.Hour() != 0 || d.Minute() != 0 || d.Location() != time.UTC {
		t.Errorf("today() = %v, want UTC midnight", d)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is longer than ten", 10, "this is..."},
		{"", 5, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 6, "abcdef"},
		{"abcdefgh", 6, "abcdefgh"},
		{"", 3, "   "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestBuildWeeklyInput(t *testing.T) {
	resetFlags()
	defer resetFlags()

	weekSleep, weekStress, weekReadiness = "good", "low", "strong"
	weekEnergy, weekEating = "high", "enough"
	weekPain = []string{"knee", " "}
	weekInjury = true

	in, err := buildWeeklyInput("4")
	if err != nil {
		t.Fatalf("buildWeeklyInput failed: %v", err)
	}
	if in.RawSessions != 4 {
		t.Errorf("RawSessions = %d, want 4", in.RawSessions)
	}
	if in.CheckIn == nil || in.CheckIn.Sleep != models.SleepGood {
		t.Errorf("CheckIn = %+v", in.CheckIn)
	}
	if in.EnergyCheck == nil || in.EnergyCheck.Eating != models.EatingEnough {
		t.Errorf("EnergyCheck = %+v", in.EnergyCheck)
	}
	if !in.ActiveInjury || !in.HasPain() {
		t.Errorf("expected injury and pain, got %+v", in)
	}
}

func TestBuildWeeklyInputErrors(t *testing.T) {
	tests := []struct {
		name     string
		sessions string
		set      func()
	}{
		{"not a number", "three", func() {}},
		{"negative", "-2", func() {}},
		{"partial check-in", "3", func() { weekSleep = "good" }},
		{"unknown sleep", "3", func() { weekSleep, weekStress, weekReadiness = "amazing", "low", "good" }},
		{"partial energy", "3", func() { weekEnergy = "low" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			defer resetFlags()
			tt.set()
			if _, err := buildWeeklyInput(tt.sessions); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "coach" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "coach")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}

	userFlag := rootCmd.PersistentFlags().Lookup("user")
	if userFlag == nil {
		t.Fatal("Expected --user persistent flag")
	}
	if userFlag.Shorthand != "u" {
		t.Errorf("Expected shorthand 'u', got %q", userFlag.Shorthand)
	}
	if rootCmd.PersistentFlags().Lookup("backend") == nil {
		t.Error("Expected --backend persistent flag")
	}
}

func TestWeekCmdFlags(t *testing.T) {
	for _, name := range []string{"sleep", "stress", "readiness", "energy", "eating", "pain", "injury", "json"} {
		if weekCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag on week command", name)
		}
	}
}

func TestHistoryCmdFlags(t *testing.T) {
	limitFlag := historyCmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("Expected --limit flag on history command")
	}
	if limitFlag.Shorthand != "n" {
		t.Errorf("Expected shorthand 'n', got %q", limitFlag.Shorthand)
	}
	if limitFlag.DefValue != "0" {
		t.Errorf("Expected default limit 0, got %s", limitFlag.DefValue)
	}
}

func TestCommandAliases(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"w", "week"},
		{"checkin", "week"},
		{"st", "status"},
		{"hist", "history"},
		{"p", "plan"},
		{"s", "sync"},
	}

	for _, tt := range tests {
		cmd, _, err := rootCmd.Find([]string{tt.alias})
		if err != nil {
			t.Errorf("Find(%q) failed: %v", tt.alias, err)
			continue
		}
		if cmd.Name() != tt.want {
			t.Errorf("alias %q resolved to %q, want %q", tt.alias, cmd.Name(), tt.want)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := map[string]bool{"json": true, "yaml": true, "markdown": true}
	if len(exportCmd.ValidArgs) != len(want) {
		t.Errorf("ValidArgs = %v", exportCmd.ValidArgs)
	}
	for _, arg := range exportCmd.ValidArgs {
		if !want[arg] {
			t.Errorf("unexpected valid arg %q", arg)
		}
	}
}

func TestSyncCmdSubcommands(t *testing.T) {
	expected := []string{"link", "now", "repair", "reset", "status", "unlink", "wipe"}

	names := make(map[string]bool)
	for _, cmd := range syncCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("Expected sync subcommand %q", name)
		}
	}

	if syncRepairCmd.Flags().Lookup("force") == nil {
		t.Error("Expected --force flag on sync repair")
	}
}

func TestSkipStorageAnnotations(t *testing.T) {
	for _, cmd := range []string{"link", "unlink", "repair", "reset", "wipe"} {
		c, _, err := syncCmd.Find([]string{cmd})
		if err != nil {
			t.Fatalf("Find(%q) failed: %v", cmd, err)
		}
		if c.Annotations[skipStorage] != "true" {
			t.Errorf("sync %s should not open storage", cmd)
		}
	}
	if installSkillCmd.Annotations[skipStorage] != "true" {
		t.Error("install-skill should not open storage")
	}
	if syncStatusCmd.Annotations[skipStorage] == "true" {
		t.Error("sync status needs storage")
	}
}

func TestMcpCmdExists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "mcp" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected mcp command to be registered")
	}
}

func TestMigrateCmdFlags(t *testing.T) {
	for _, name := range []string{"to", "to-dir", "to-dsn", "dry-run"} {
		if migrateCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag on migrate command", name)
		}
	}
}

// resetFlags clears every command flag variable between runs.
func resetFlags() {
	userFlag, backendFlag = "", ""
	initStart, initTemplate, initStyle, initEquipment = "", "", "", nil
	weekSleep, weekStress, weekReadiness = "", "", ""
	weekEnergy, weekEating = "", ""
	weekPain, weekInjury, weekJSON = nil, false, false
	historyLimit = 0
	planMinimum, planJSON = false, false
	prefsTemplate, prefsStyle, prefsEquipment = "", "", nil
	exportOutput, exportSince = "", ""
	usersForce = false
	migrateTo, migrateToDir, migrateToDSN, migrateDryRun = "", "", "", false
}

// setupTestCLI points the CLI at fresh config and data directories and
// returns the SQLite path commands will use.
func setupTestCLI(t *testing.T) string {
	t.Helper()
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("COACH_USER", "")
	return filepath.Join(dataHome, "coach", "coach.db")
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := runCLI(t, args...); err != nil {
		t.Fatalf("coach %s failed: %v", strings.Join(args, " "), err)
	}
}

// openStore opens the CLI's SQLite file for inspection after commands ran.
func openStore(t *testing.T, path string) *storage.DB {
	t.Helper()
	db, err := storage.Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitCmdWithDB(t *testing.T) {
	dbPath := setupTestCLI(t)

	mustRun(t, "init", "-u", "ada", "--start", "2025-01-06", "--template", "upper_lower", "--equipment", "dumbbell,bench")

	st, err := openStore(t, dbPath).GetState("ada")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if st.Phase != models.PhaseOnboarding {
		t.Errorf("Phase = %s, want onboarding", st.Phase)
	}
	if st.WeekNumber != 1 {
		t.Errorf("WeekNumber = %d, want 1", st.WeekNumber)
	}
	if got := st.StartDate.Format(models.WeekStartLayout); got != "2025-01-06" {
		t.Errorf("StartDate = %s, want 2025-01-06", got)
	}
	if st.Preferences.Template != models.TemplateUpperLower {
		t.Errorf("Template = %s, want upper_lower", st.Preferences.Template)
	}
	if len(st.Preferences.Equipment) != 2 {
		t.Errorf("Equipment = %v, want dumbbell and bench", st.Preferences.Equipment)
	}
}

func TestInitCmdDefaultUser(t *testing.T) {
	dbPath := setupTestCLI(t)

	mustRun(t, "init")

	if _, err := openStore(t, dbPath).GetState("me"); err != nil {
		t.Errorf("expected state for default user: %v", err)
	}
}

func TestInitCmdUserFromEnv(t *testing.T) {
	dbPath := setupTestCLI(t)
	t.Setenv("COACH_USER", "bo")

	mustRun(t, "init")

	if _, err := openStore(t, dbPath).GetState("bo"); err != nil {
		t.Errorf("expected state for COACH_USER: %v", err)
	}
}

func TestInitCmdErrors(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "init", "-u", "ada")

	tests := []struct {
		name string
		args []string
	}{
		{"duplicate user", []string{"init", "-u", "ada"}},
		{"invalid template", []string{"init", "-u", "bo", "--template", "bro_split"}},
		{"invalid equipment", []string{"init", "-u", "bo", "--equipment", "rowing_machine"}},
		{"invalid start", []string{"init", "-u", "bo", "--start", "next monday"}},
		{"unknown backend", []string{"init", "-u", "bo", "--backend", "floppy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWeekCmdWithDB(t *testing.T) {
	dbPath := setupTestCLI(t)
	mustRun(t, "init", "-u", "ada", "--start", "2025-01-06")

	mustRun(t, "week", "3", "-u", "ada", "--sleep", "good", "--stress", "low", "--readiness", "strong")

	db := openStore(t, dbPath)
	st, err := db.GetState("ada")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if st.WeekNumber != 2 {
		t.Errorf("WeekNumber = %d, want 2", st.WeekNumber)
	}

	snap, err := db.GetSnapshot("ada", 1)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snap.Completion.Raw != 3 {
		t.Errorf("Completion.Raw = %d, want 3", snap.Completion.Raw)
	}
	if snap.WeekStart != "2025-01-06" {
		t.Errorf("WeekStart = %s, want 2025-01-06", snap.WeekStart)
	}
}

func TestWeekCmdInjury(t *testing.T) {
	dbPath := setupTestCLI(t)
	mustRun(t, "init", "-u", "ada")

	mustRun(t, "week", "3", "-u", "ada", "--pain", "knee", "--pain", "hip", "--injury")

	snap, err := openStore(t, dbPath).GetSnapshot("ada", 1)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snap.Decision.Type != models.DecisionScaleBack {
		t.Errorf("Decision = %s, want scale_back", snap.Decision.Type)
	}
	if !snap.State.ActiveInjury {
		t.Error("expected active injury in snapshot")
	}
	if len(snap.State.PainFlags) != 2 {
		t.Errorf("PainFlags = %v, want knee and hip", snap.State.PainFlags)
	}
}

func TestWeekCmdJSON(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "init", "-u", "ada")
	mustRun(t, "week", "2", "-u", "ada", "--json")
}

func TestWeekCmdErrorsStoreNothing(t *testing.T) {
	dbPath := setupTestCLI(t)
	mustRun(t, "init", "-u", "ada")

	tests := []struct {
		name string
		args []string
	}{
		{"not a number", []string{"week", "three", "-u", "ada"}},
		{"partial check-in", []string{"week", "3", "-u", "ada", "--sleep", "good"}},
		{"unknown stress", []string{"week", "3", "-u", "ada", "--sleep", "good", "--stress", "zen", "--readiness", "good"}},
		{"unknown user", []string{"week", "3", "-u", "nobody"}},
		{"no sessions", []string{"week", "-u", "ada"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}

	st, err := openStore(t, dbPath).GetState("ada")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if st.WeekNumber != 1 {
		t.Errorf("WeekNumber = %d after failed weeks, want 1", st.WeekNumber)
	}
}

func TestStatusCmd(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "init", "-u", "ada")
	mustRun(t, "week", "1", "-u", "ada", "--pain", "shoulder")
	mustRun(t, "status", "-u", "ada")

	if err := runCLI(t, "status", "-u", "nobody"); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestHistoryCmd(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "init", "-u", "ada")
	mustRun(t, "history", "-u", "ada")

	for i := 0; i < 3; i++ {
		mustRun(t, "week", "3", "-u", "ada")
	}
	mustRun(t, "history", "-u", "ada")
	mustRun(t, "history", "-u", "ada", "-n", "2")
}

func TestPlanCmd(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "init", "-u", "ada", "--equipment", "dumbbell")
	mustRun(t, "plan", "-u", "ada")
	mustRun(t, "plan", "-u", "ada", "--minimum")

	mustRun(t, "week", "3", "-u", "ada")
	mustRun(t, "plan", "1", "-u", "ada")
	mustRun(t, "plan", "2", "-u", "ada", "--json")

	for _, arg := range []string{"0", "x", "9"} {
		if err := runCLI(t, "plan", arg, "-u", "ada"); err == nil {
			t.Errorf("plan %s: expected error", arg)
		}
	}
}

func TestPrefsCmd(t *testing.T) {
	dbPath := setupTestCLI(t)
	mustRun(t, "init", "-u", "ada")

	mustRun(t, "prefs", "-u", "ada", "--template", "push_pull", "--style", "cardio_focus", "--equipment", "band")

	st, err := openStore(t, dbPath).GetState("ada")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	want := models.Preferences{
		Template:  models.TemplatePushPull,
		Style:     models.StyleCardioFocus,
		Equipment: []models.Equipment{models.EquipmentBand},
	}
	if st.Preferences.Template != want.Template || st.Preferences.Style != want.Style {
		t.Errorf("Preferences = %+v, want %+v", st.Preferences, want)
	}
	if len(st.Preferences.Equipment) != 1 || st.Preferences.Equipment[0] != models.EquipmentBand {
		t.Errorf("Equipment = %v, want [band]", st.Preferences.Equipment)
	}

	if err := runCLI(t, "prefs", "-u", "ada", "--style", "yoga"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestExportCmds(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "init", "-u", "ada", "--start", "2025-01-06")
	mustRun(t, "week", "3", "-u", "ada")
	mustRun(t, "week", "2", "-u", "ada")

	mustRun(t, "export", "json", "-u", "ada")
	mustRun(t, "export", "yaml", "-u", "ada")
	mustRun(t, "export", "markdown", "-u", "ada", "--since", "2025-01-13")

	if err := runCLI(t, "export", "csv", "-u", "ada"); err == nil {
		t.Error("Expected error for invalid export format")
	}
	if err := runCLI(t, "export", "markdown", "-u", "ada", "--since", "yesterday"); err == nil {
		t.Error("Expected error for invalid since date")
	}
	if err := runCLI(t, "export", "json", "-u", "nobody"); err == nil {
		t.Error("Expected error for unknown user")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dbPath := setupTestCLI(t)
	mustRun(t, "init", "-u", "ada")
	mustRun(t, "week", "3", "-u", "ada")

	backup := filepath.Join(t.TempDir(), "ada.json")
	mustRun(t, "export", "json", "-u", "ada", "-o", backup)

	raw, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("Expected export file: %v", err)
	}
	var data storage.ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.State.UserID != "ada" || len(data.Snapshots) != 1 {
		t.Errorf("export = %s with %d snapshots", data.State.UserID, len(data.Snapshots))
	}

	if err := runCLI(t, "import", backup); err == nil {
		t.Error("Expected error importing an existing user")
	}

	mustRun(t, "users", "delete", "ada", "--force")
	mustRun(t, "import", backup)

	db := openStore(t, dbPath)
	st, err := db.GetState("ada")
	if err != nil {
		t.Fatalf("GetState after import failed: %v", err)
	}
	if st.WeekNumber != 2 {
		t.Errorf("WeekNumber = %d, want 2", st.WeekNumber)
	}
	if _, err := db.GetSnapshot("ada", 1); err != nil {
		t.Errorf("GetSnapshot after import failed: %v", err)
	}
}

func TestImportCmdMissingFile(t *testing.T) {
	setupTestCLI(t)
	if err := runCLI(t, "import", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestUsersCmds(t *testing.T) {
	dbPath := setupTestCLI(t)
	mustRun(t, "users")

	mustRun(t, "init", "-u", "ada")
	mustRun(t, "init", "-u", "bo")
	mustRun(t, "users")

	mustRun(t, "users", "rm", "bo", "-f")

	users, err := openStore(t, dbPath).ListUsers()
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 || users[0] != "ada" {
		t.Errorf("users = %v, want [ada]", users)
	}
}

func TestUsersDeleteUnknown(t *testing.T) {
	setupTestCLI(t)
	err := runCLI(t, "users", "delete", "nobody", "--force")
	if err == nil {
		t.Fatal("Expected error deleting unknown user")
	}
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMigrateCmd(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "init", "-u", "ada")
	mustRun(t, "week", "3", "-u", "ada")
	mustRun(t, "init", "-u", "bo")

	dest := t.TempDir()
	mustRun(t, "migrate", "--to", "sqlite", "--to-dir", dest, "--dry-run")

	dstPath := filepath.Join(dest, "coach.db")
	func() {
		db, err := storage.Open(dstPath)
		if err != nil {
			t.Fatalf("Failed to open destination: %v", err)
		}
		defer db.Close()
		users, _ := db.ListUsers()
		if len(users) != 0 {
			t.Errorf("dry run copied users: %v", users)
		}
	}()

	mustRun(t, "migrate", "--to", "sqlite", "--to-dir", dest)
	mustRun(t, "migrate", "--to", "sqlite", "--to-dir", dest)

	db := openStore(t, dstPath)
	users, err := db.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("users = %v, want ada and bo", users)
	}
	if _, err := db.GetSnapshot("ada", 1); err != nil {
		t.Errorf("snapshot not migrated: %v", err)
	}
}

func TestMigrateCmdErrors(t *testing.T) {
	setupTestCLI(t)

	if err := runCLI(t, "migrate"); err == nil {
		t.Error("Expected error without --to")
	}
	if err := runCLI(t, "migrate", "--to", "sqlite"); err == nil {
		t.Error("Expected error migrating a store onto itself")
	}
	if err := runCLI(t, "migrate", "--to", "postgres"); err == nil {
		t.Error("Expected error for postgres without a DSN")
	}
}

func TestSyncCmdsNeedCharmBackend(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "sync", "status")
	if err := runCLI(t, "sync", "now"); err == nil {
		t.Error("Expected error syncing the sqlite backend")
	}
}

func TestConfigFileSelectsDataDir(t *testing.T) {
	setupTestCLI(t)
	dataDir := t.TempDir()

	configDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "coach")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatal(err)
	}
	raw := []byte(`{"data_dir": "` + dataDir + `", "default_user": "cy"}`)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), raw, 0600); err != nil {
		t.Fatal(err)
	}

	mustRun(t, "init")

	if _, err := openStore(t, filepath.Join(dataDir, "coach.db")).GetState("cy"); err != nil {
		t.Errorf("expected default_user state in configured data dir: %v", err)
	}
}

type countingCloser struct {
	closed int
	err    error
}

func (c *countingCloser) Close() error {
	c.closed++
	return c.err
}

func TestCloseOpened(t *testing.T) {
	failed := errors.New("engine failed")
	store := &countingCloser{}
	locker := &countingCloser{err: errors.New("unlock failed")}

	err := closeOpened(failed, store, locker, struct{}{})
	if store.closed != 1 || locker.closed != 1 {
		t.Errorf("closed store %d and locker %d times, want 1 each", store.closed, locker.closed)
	}
	if !errors.Is(err, failed) {
		t.Errorf("expected original error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unlock failed") {
		t.Errorf("expected close error folded in, got %v", err)
	}
}

func TestBadLibraryFailsSetup(t *testing.T) {
	setupTestCLI(t)

	configDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "coach")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	raw := []byte(`{"library_path": "` + missing + `"}`)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), raw, 0600); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, "status"); err == nil {
		t.Error("Expected error loading a missing exercise library")
	}
	if svc != nil {
		t.Error("service should not be set after a failed setup")
	}
}
