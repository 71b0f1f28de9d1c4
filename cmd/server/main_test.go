package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/slotboard/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestEnsureDBDir(t *testing.T) {
	require.NoError(t, ensureDBDir(":memory:"))

	path := filepath.Join(t.TempDir(), "nested", "dir", "slotboard.db")
	require.NoError(t, ensureDBDir(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestLogFileWriter_KeepsNewestBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "slotboard.log")
	writer, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()
	writer.maxSize = 16
	writer.keepSize = 8

	_, err = writer.Write([]byte("0123456789"))
	require.NoError(t, err)
	_, err = writer.Write([]byte("abcdefghij"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "cdefghij", string(data))
}

func TestProjectTable(t *testing.T) {
	out := projectTable([]project.ProjectSummary{{
		ID:              "p1",
		Title:           "Jam A",
		Genre:           "techno",
		Status:          project.StatusProcessed,
		NumberOfTracks:  8,
		DurationMinutes: 45,
		IsDone:          true,
		UpdatedAt:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}})

	require.Contains(t, out, "Jam A")
	require.Contains(t, out, "processed")
	require.Contains(t, out, "2024-05-01 12:00:00")
	require.Equal(t, "", renderTable(nil, nil, nil))
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSeedThenListProjects(t *testing.T) {
	t.Setenv("SLOTBOARD_DB_PATH", filepath.Join(t.TempDir(), "slotboard.db"))
	t.Setenv("SLOTBOARD_LOG_LEVEL", "error")

	out := runCommand(t, "seed", "--owner", "alice", "--count", "3", "--seed", "7")
	require.Contains(t, out, "Seeded 3 projects for alice")

	out = runCommand(t, "projects", "--owner", "alice")
	require.Equal(t, 3, strings.Count(out, " idle "))

	out = runCommand(t, "projects", "--owner", "bob")
	require.Contains(t, out, "No projects for bob")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("SLOTBOARD_AUTH_JWT_SECRET", "s3cret")

	out := runCommand(t, "token", "--owner", "alice")
	require.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"token"})
	require.ErrorContains(t, cmd.Execute(), "--owner is required")
}
