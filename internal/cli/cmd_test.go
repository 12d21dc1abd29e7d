package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/mcp"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/session"
	"github.com/claude/mapty/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires an App over a SQLite file in a temp dir so that state
// survives between command invocations.
func testApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "mapty.db")

	alerts := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &App{
		Open:          NewOpener(cfg, alerts, log),
		Version:       "test",
		Log:           log,
		IsInteractive: func() bool { return false },
	}, alerts
}

// run executes one maptyctl invocation and returns its stdout.
func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	defer app.Close()
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListEmpty(t *testing.T) {
	app, _ := testApp(t)

	out, err := run(t, app, "list")

	require.NoError(t, err)
	assert.Equal(t, "No workouts found.\n", out)
}

func TestRecordThenList(t *testing.T) {
	app, _ := testApp(t)

	out, err := run(t, app, "record", "--type", "running", "--lat", "51.5", "--lng", "-0.12",
		"--distance", "5.2", "--duration", "24", "--cadence", "178")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded")
	assert.Contains(t, out, "Running")

	_, err = run(t, app, "record", "--type", "cycling", "--lat", "51.6", "--lng", "-0.1",
		"--distance", "10", "--duration", "30", "--elevation", "250")
	require.NoError(t, err)

	out, err = run(t, app, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4, "header, separator and two rows")
	assert.Contains(t, lines[0], "WORKOUT")
	assert.Contains(t, lines[2], "1.0 min/km")
	assert.Contains(t, lines[2], "178 spm")
	assert.Contains(t, lines[3], "20.0 km/h")
	assert.Contains(t, lines[3], "250 m")

	out, err = run(t, app, "list", "--type", "cycling")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestRecordMissingFlags(t *testing.T) {
	app, _ := testApp(t)

	_, err := run(t, app, "record", "--type", "running", "--distance", "5")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--lat")
	assert.Contains(t, err.Error(), "--duration")
}

func TestRecordInvalidShowsAlert(t *testing.T) {
	app, alerts := testApp(t)

	_, err := run(t, app, "record", "--type", "running", "--lat", "1", "--lng", "2",
		"--distance", "5", "--duration", "20")

	require.Error(t, err, "cadence defaults to 0, which is rejected")
	assert.Contains(t, alerts.String(), "Input must be a whole positive number")

	out, err := run(t, app, "list")
	require.NoError(t, err)
	assert.Equal(t, "No workouts found.\n", out)
}

func TestDeleteAndReset(t *testing.T) {
	app, _ := testApp(t)
	for range 2 {
		_, err := run(t, app, "record", "--type", "cycling", "--lat", "1", "--lng", "2",
			"--distance", "10", "--duration", "30", "--elevation", "5")
		require.NoError(t, err)
	}

	_, err := run(t, app, "delete", "nope")
	assert.Error(t, err)

	_, err = run(t, app, "reset")
	assert.ErrorContains(t, err, "--yes")

	out, err := run(t, app, "reset", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "All workouts deleted.\n", out)

	out, err = run(t, app, "list")
	require.NoError(t, err)
	assert.Equal(t, "No workouts found.\n", out)
}

func TestRecordValuesInput(t *testing.T) {
	in, err := recordValues{Type: "cycling", Lat: "1.5", Lng: " -2 ", Distance: "10", Duration: "30", Elevation: ""}.input()
	require.NoError(t, err)
	assert.Equal(t, 1.5, in.Lat)
	assert.Equal(t, -2.0, in.Lng)
	assert.Equal(t, 0.0, in.Elevation)

	_, err = recordValues{Type: "running", Distance: "five"}.input()
	assert.ErrorContains(t, err, "distance")
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validatePositive("3.5"))
	assert.Error(t, validatePositive("0"))
	assert.Error(t, validatePositive("-1"))
	assert.Error(t, validatePositive("abc"))

	assert.NoError(t, validateNumber("-12"))
	assert.Error(t, validateNumber(""))
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"long cell", "x"}, {"s", "y"}})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
}

func TestTerminalAlert(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Alert("no location")

	assert.Contains(t, buf.String(), "! no location")
	assert.Equal(t, 1, int(term.CreateView(models.Coords{}, 13)))
}

func TestExportThenImport(t *testing.T) {
	src, _ := testApp(t)
	_, err := run(t, src, "record", "--type", "cycling", "--lat", "51.6", "--lng", "-0.1",
		"--distance", "10", "--duration", "30", "--elevation", "250")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "workouts.json.gz")
	out, err := run(t, src, "export", "-o", file)
	require.NoError(t, err)
	assert.Equal(t, "Exported 1 workouts to "+file+"\n", out)

	dst, _ := testApp(t)
	out, err = run(t, dst, "import", "--dry-run", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Would import 1 workouts from 1 files")

	out, err = run(t, dst, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 workouts from 1 files (0 duplicates")

	out, err = run(t, dst, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 workouts from 1 files (1 duplicates")

	out, err = run(t, dst, "export")
	require.NoError(t, err)
	assert.Contains(t, out, `"description": "Cycling`)
	assert.Contains(t, out, `"speed": 20`)
}

// A failed command must still release the store, or the next one finds it locked.
func TestFailedCommandReleasesStore(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "mapty.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := &App{Open: NewOpener(cfg, io.Discard, log), Log: log}

	_, err := run(t, app, "delete", "missing")
	require.ErrorIs(t, err, session.ErrWorkoutNotFound)

	s, err := storage.OpenSQLite(context.Background(), cfg.Storage.SQLite.Path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestStoreHeldByServer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file locks are unix-only")
	}
	cfg := config.Default()
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "mapty.db")
	held, err := storage.OpenSQLite(context.Background(), cfg.Storage.SQLite.Path)
	require.NoError(t, err)
	defer held.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := &App{Open: NewOpener(cfg, io.Discard, log), Log: log}

	_, err = run(t, app, "list")
	require.ErrorIs(t, err, storage.ErrLocked)
	assert.Contains(t, err.Error(), "--server")
}

func TestServerFlagDefault(t *testing.T) {
	var got string
	app := &App{
		Server: "http://mapty.example:8080",
		Open: func(_ context.Context, server string) (mcp.DataSource, func(), error) {
			got = server
			return nil, nil, errors.New("stop")
		},
	}

	_, err := run(t, app, "list")

	require.EqualError(t, err, "stop")
	assert.Equal(t, "http://mapty.example:8080", got)
}
