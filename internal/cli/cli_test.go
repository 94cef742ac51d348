package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Valentin39220/bini-crm/internal/prospects/export"
	"github.com/Valentin39220/bini-crm/internal/prospects/repository"
	"github.com/Valentin39220/bini-crm/internal/prospects/service"
)

// seededOpener serves the example dataset from a fresh file slot, with the
// clock pinned to 2024-01-19.
func seededOpener(t *testing.T) (Opener, *int) {
	slot, err := repository.NewFileSlot(t.TempDir())
	require.NoError(t, err)

	released := 0
	open := func(ctx context.Context) (*service.ProspectService, func() error, error) {
		repo := repository.NewProspectRepository(slot, "")
		svc, err := service.Open(ctx, repo, service.WithClock(func() time.Time {
			return time.Date(2024, 1, 19, 8, 0, 0, 0, time.UTC)
		}))
		if err != nil {
			return nil, nil, err
		}
		release := func() error {
			released++
			return nil
		}
		return svc, release, nil
	}
	return open, &released
}

func run(t *testing.T, open Opener, args ...string) (string, error) {
	cmd := NewRootCommand(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	open, released := seededOpener(t)

	t.Run("stdout", func(t *testing.T) {
		out, err := run(t, open, "export")
		require.NoError(t, err)

		lines := strings.Split(out, "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, strings.Join(export.Header, ","), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "Tech Solutions,Marie Martin,"))
		assert.Equal(t, 1, *released)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		_, err := run(t, open, "export", "--rfc4180", "-o", path)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(string(data), "\n"))
	})

	t.Run("close failure is reported", func(t *testing.T) {
		var buf bytes.Buffer
		restore := createFile
		createFile = func(string) (io.WriteCloser, error) {
			return failingCloser{Writer: &buf}, nil
		}
		t.Cleanup(func() { createFile = restore })

		_, err := run(t, open, "export", "-o", "out.csv")
		require.Error(t, err)
		assert.ErrorIs(t, err, errDiskFull)
		assert.Contains(t, err.Error(), "failed to close out.csv")
		assert.NotEmpty(t, buf.String())
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope", "out.csv")
		_, err := run(t, open, "export", "-o", path)
		assert.Error(t, err)
	})
}

var errDiskFull = errors.New("disk full")

type failingCloser struct {
	io.Writer
}

func (failingCloser) Close() error { return errDiskFull }

func TestStatsCommand(t *testing.T) {
	open, _ := seededOpener(t)

	t.Run("text", func(t *testing.T) {
		out, err := run(t, open, "stats")
		require.NoError(t, err)
		assert.Contains(t, out, "today: 2024-01-19")
		assert.Contains(t, out, "total: 3")
		assert.Contains(t, out, "urgent follow-ups: 1")
		assert.Contains(t, out, "open pipeline: 75000 EUR")
	})

	t.Run("json with a pinned day", func(t *testing.T) {
		out, err := run(t, open, "stats", "--format", "json", "--today", "2024-06-01")
		require.NoError(t, err)

		var body struct {
			Today string         `json:"today"`
			Stats map[string]int `json:"stats"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &body))
		assert.Equal(t, "2024-06-01", body.Today)
		assert.Equal(t, 3, body.Stats["urgentFollowUps"])
		assert.Equal(t, 2, body.Stats["hotCount"])
	})

	t.Run("invalid day", func(t *testing.T) {
		_, err := run(t, open, "stats", "--today", "someday")
		assert.Error(t, err)
	})
}

func TestRemindCommand(t *testing.T) {
	open, _ := seededOpener(t)

	out, err := run(t, open, "remind")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-18\toverdue\tGreen Energy\tPierre Dubois\n", out)

	out, err = run(t, open, "remind", "--format", "json")
	require.NoError(t, err)
	var lines []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, "2", lines[0]["id"])
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	open, _ := seededOpener(t)
	_, err := run(t, open, "stats", "--format", "xml")
	assert.Error(t, err)
}

func TestOpenerError(t *testing.T) {
	failing := func(context.Context) (*service.ProspectService, func() error, error) {
		return nil, nil, assert.AnError
	}
	_, err := run(t, failing, "export")
	assert.ErrorIs(t, err, assert.AnError)
}
