package cmd

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/wrapped/internal/history"
	"github.com/runger/wrapped/internal/slides"
)

const sampleHistory = `2024-01-15 09:30:00 git status
2024-01-15 09:31:00 git commit -m "fix"
2024-01-15 23:10:00 ls -la | grep go
bad-line-no-command
2024-03-02 14:00:00 docker ps
`

// isolate points config and log paths at temp dirs and clears the
// environment variables that change behavior.
func isolate(t *testing.T) (configHome, dataHome string) {
	t.Helper()
	configHome = t.TempDir()
	dataHome = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", dataHome)
	for _, k := range []string{"HISTFILE", "WRAPPED_HISTFILE", "WRAPPED_SHELL", "WRAPPED_DEBUG", "WRAPPED_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Setenv("NO_COLOR", "1")
	disableColors(t)
	return configHome, dataHome
}

// disableColors blanks the CLI color codes for the duration of the test.
func disableColors(t *testing.T) {
	t.Helper()
	saved := []string{colorYellow, colorCyan, colorDim, colorBold, colorReset}
	colorYellow, colorCyan, colorDim, colorBold, colorReset = "", "", "", "", ""
	t.Cleanup(func() {
		colorYellow, colorCyan, colorDim, colorBold, colorReset = saved[0], saved[1], saved[2], saved[3], saved[4]
	})
}

func writeHistory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the CLI with args and stdin, returning stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "wrapped "+Version)
	assert.Contains(t, out, "commit:")
}

func TestSummary_File(t *testing.T) {
	isolate(t)
	path := writeHistory(t, sampleHistory)

	out, _, err := execute(t, "", "summary", "--file", path)
	require.NoError(t, err)

	for _, s := range slides.DefaultDeck() {
		assert.Contains(t, out, s.Title)
	}
	assert.Contains(t, out, "slide 1/7")
	assert.Contains(t, out, "slide 7/7")
	assert.Contains(t, out, "git")
	assert.NotContains(t, out, "bad-line-no-command")
	assert.NotContains(t, out, "\x1b[")

	// Slides appear in deck order.
	first := strings.Index(out, "slide 1/7")
	last := strings.Index(out, "slide 7/7")
	assert.Less(t, first, last)
}

func TestSummary_Stdin(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, sampleHistory, "summary", "--stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "docker")
}

func TestSummary_YearFilter(t *testing.T) {
	isolate(t)
	path := writeHistory(t, sampleHistory)

	out, _, err := execute(t, "", "summary", "--file", path, "--year", "2023")
	require.NoError(t, err)
	assert.Contains(t, out, slides.NoData)
	assert.NotContains(t, out, "docker")
}

func TestSummary_EmptyHistory(t *testing.T) {
	isolate(t)
	path := writeHistory(t, "")

	out, _, err := execute(t, "", "summary", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, slides.NoData)
	assert.Contains(t, out, "slide 7/7")
}

func TestSummary_Database(t *testing.T) {
	isolate(t)

	dbPath := filepath.Join(t.TempDir(), "state.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE commands (id INTEGER PRIMARY KEY, ts_start_unix_ms INTEGER NOT NULL, command TEXT NOT NULL)`)
	require.NoError(t, err)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local).UnixMilli()
	_, err = db.Exec(`INSERT INTO commands (ts_start_unix_ms, command) VALUES (?, ?), (?, ?)`,
		ts, "kubectl get pods", ts+1000, "kubectl logs web")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, _, err := execute(t, "", "summary", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "kubectl")
}

func TestRun_MissingFileIsFatal(t *testing.T) {
	isolate(t)
	missing := filepath.Join(t.TempDir(), "nope")

	out, stderr, err := execute(t, "q", "--file", missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, history.ErrSourceUnavailable), err.Error())
	assert.Empty(t, out, "no slide is shown after a fatal input error")
	assert.Equal(t, 1, strings.Count(stderr, "Error:"))
}

func TestRun_InvalidShellFlag(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "q", "--shell", "fish")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--shell")
}

func TestRun_UnsupportedShell(t *testing.T) {
	isolate(t)
	t.Setenv("SHELL", "/usr/bin/fish")

	_, _, err := execute(t, "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, history.ErrUnsupportedShell))
	assert.Contains(t, err.Error(), "--file")
}

func TestRun_LineModeNavigation(t *testing.T) {
	isolate(t)
	path := writeHistory(t, sampleHistory)

	out, _, err := execute(t, "nnpq", "--file", path)
	require.NoError(t, err)

	var shown []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "slide ") {
			shown = append(shown, strings.Fields(line)[1])
		}
	}
	assert.Equal(t, []string{"1/7", "2/7", "3/7", "2/7"}, shown)
}

func TestRun_EndOfScriptedInput(t *testing.T) {
	isolate(t)
	path := writeHistory(t, sampleHistory)

	out, _, err := execute(t, "n", "--file", path, "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "slide 2/7")
}

func TestRun_LogFile(t *testing.T) {
	_, dataHome := isolate(t)
	path := writeHistory(t, sampleHistory)

	_, _, err := execute(t, "q", "--file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dataHome, "wrapped", "logs", "wrapped.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"run started"`)
	assert.Contains(t, string(data), `"msg":"history parsed"`)
	assert.Contains(t, string(data), `"dropped_lines":1`)
	assert.Contains(t, string(data), `"run_id":`)
}

func TestRun_BrokenConfigIsLogged(t *testing.T) {
	configHome, dataHome := isolate(t)
	path := writeHistory(t, sampleHistory)
	require.NoError(t, os.MkdirAll(filepath.Join(configHome, "wrapped"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configHome, "wrapped", "config.yaml"), []byte("display: [unclosed\n"), 0o600))

	out, _, err := execute(t, "q", "summary", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
	assert.Empty(t, out)

	data, err := os.ReadFile(filepath.Join(dataHome, "wrapped", "logs", "wrapped.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"config load failed"`)
	assert.Contains(t, string(data), `"level":"ERROR"`)
}

func TestRun_LogStderr(t *testing.T) {
	isolate(t)
	path := writeHistory(t, sampleHistory)

	out, stderr, err := execute(t, "q", "--file", path, "--log-stderr")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"run started"`)
	assert.NotContains(t, out, "run started")
}

func TestConfig_SetGetList(t *testing.T) {
	configHome, _ := isolate(t)

	out, _, err := execute(t, "", "config", "history.year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "history.year = 2024")

	_, err = os.Stat(filepath.Join(configHome, "wrapped", "config.yaml"))
	require.NoError(t, err)

	out, _, err = execute(t, "", "config", "history.year")
	require.NoError(t, err)
	assert.Equal(t, "2024\n", out)

	out, _, err = execute(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "history.year = 2024")
	assert.Contains(t, out, "display.mode = tui")
	assert.Contains(t, out, "history.file = (not set)")
}

func TestConfig_InvalidValue(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "", "config", "display.mode", "fancy")
	require.Error(t, err)
}

func TestConfig_YearUsedBySummary(t *testing.T) {
	isolate(t)
	path := writeHistory(t, sampleHistory)

	_, _, err := execute(t, "", "config", "history.year", "2023")
	require.NoError(t, err)

	out, _, err := execute(t, "", "summary", "--file", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "docker")

	out, _, err = execute(t, "", "summary", "--file", path, "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "docker")
}
