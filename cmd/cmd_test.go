package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against db and returns stdout. Cobra keeps
// flag values between runs, so each test passes every flag it relies on.
func execute(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--db", db, "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_TrackerLogStats(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	out, err := execute(t, db, "tracker", "add", "No", "sugar")
	require.NoError(t, err)
	assert.Contains(t, out, `Added "No sugar"`)

	out, err = execute(t, db, "log", "green", "--note", "easy day", "--date", "", "--tracker", "")
	require.NoError(t, err)
	assert.Contains(t, out, "All good logged for today (No sugar)")
	assert.Contains(t, out, "New badge: ")

	out, err = execute(t, db, "stats", "--json", "--tracker", "no sugar")
	require.NoError(t, err)
	var sum struct {
		Tracker struct {
			Name string `json:"name"`
		} `json:"tracker"`
		Stats struct {
			CurrentGoodStreak int `json:"currentGoodStreak"`
		} `json:"stats"`
		TotalPoints float64 `json:"totalPoints"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, "No sugar", sum.Tracker.Name)
	assert.Equal(t, 1, sum.Stats.CurrentGoodStreak)
	assert.InDelta(t, 3.2, sum.TotalPoints, 1e-9)

	out, err = execute(t, db, "tracker", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sugar")
	assert.True(t, strings.Contains(out, "*  "), "active tracker should be marked")
}

func TestCLI_LogRejectsBadStatus(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	_, err := execute(t, db, "tracker", "add", "Walk")
	require.NoError(t, err)

	_, err = execute(t, db, "log", "purple", "--note", "", "--date", "", "--tracker", "")
	assert.Error(t, err)
}

func TestCLI_ExportImport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cli.db")
	backup := filepath.Join(dir, "backup.json")

	_, err := execute(t, db, "tracker", "add", "Read")
	require.NoError(t, err)
	_, err = execute(t, db, "export", backup)
	require.NoError(t, err)

	raw, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Read"`)

	other := filepath.Join(dir, "other.db")
	out, err := execute(t, other, "import", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 trackers.")
}

func TestCLI_ResetNeedsConfirmation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	_, err := execute(t, db, "reset", "--yes=false")
	assert.Error(t, err)

	out, err := execute(t, db, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All data erased.")
}

func TestCLI_ProtocolSteps(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	out, err := execute(t, db, "protocol", "steps")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1. "), "steps should be numbered, got %q", out)
}
