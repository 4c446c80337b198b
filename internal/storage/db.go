// Package storage reads command history recorded in a SQLite command log.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/runger/wrapped/internal/history"
)

// rowLayout is the dated-line layout the history parser understands.
const rowLayout = "2006-01-02 15:04:05"

// CommandLogSource reads a SQLite database holding a
// commands(ts_start_unix_ms, command) table and renders every row as one
// dated history line.
type CommandLogSource struct {
	Path string
}

// Name implements history.Source.
func (s CommandLogSource) Name() string {
	return "sqlite:" + s.Path
}

// ReadHistory implements history.Source. The database is opened read-only
// and closed before returning.
func (s CommandLogSource) ReadHistory(ctx context.Context) (string, error) {
	db, err := openReadOnly(s.Path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT ts_start_unix_ms, command
		FROM commands
		ORDER BY ts_start_unix_ms, rowid
	`)
	if err != nil {
		if isTableNotFoundError(err) {
			return "", fmt.Errorf("%w: %s has no commands table", history.ErrSourceUnavailable, s.Path)
		}
		return "", fmt.Errorf("failed to query commands: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var tsMs int64
		var command string
		if err := rows.Scan(&tsMs, &command); err != nil {
			return "", fmt.Errorf("failed to scan command: %w", err)
		}
		command = flatten(command)
		if command == "" {
			continue
		}
		b.WriteString(formatRow(tsMs, command))
		b.WriteByte('\n')
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate commands: %w", err)
	}

	return b.String(), nil
}

// openReadOnly opens an existing database without creating or migrating it.
func openReadOnly(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no database path", history.ErrSourceUnavailable)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", history.ErrSourceUnavailable, err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", history.ErrSourceUnavailable, err)
	}
	return db, nil
}

// formatRow renders one command as a local wall-clock dated line.
func formatRow(tsMs int64, command string) string {
	return time.UnixMilli(tsMs).Local().Format(rowLayout) + " " + command
}

// flatten joins a multi-line command into one line so it survives the
// line-oriented parser as a single record. Continuation backslashes are
// dropped.
func flatten(command string) string {
	lines := strings.Split(strings.ReplaceAll(command, "\r\n", "\n"), "\n")
	if len(lines) == 1 {
		return strings.TrimSpace(command)
	}
	parts := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), "\\"))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// isTableNotFoundError checks if the error indicates a missing table.
func isTableNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "no such table")
}
