package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/runger/wrapped/internal/config"
	"github.com/runger/wrapped/internal/history"
	wlog "github.com/runger/wrapped/internal/log"
	"github.com/runger/wrapped/internal/nav"
	"github.com/runger/wrapped/internal/slides"
	"github.com/runger/wrapped/internal/stats"
	"github.com/runger/wrapped/internal/storage"
	"github.com/runger/wrapped/internal/tui"
)

// runContext is everything a front end needs after startup.
type runContext struct {
	cfg     *config.Config
	logger  *slog.Logger
	session nav.Session
	color   tui.ColorDecision
	close   func()
}

// prepareRun loads config, applies flags, opens the log, reads and parses
// the history and computes the reports. Any error here is fatal and is
// reported before a slide is shown.
func prepareRun(cmd *cobra.Command) (*runContext, error) {
	cfg, err := config.Load()
	if err != nil {
		logConfigFailure(cmd.ErrOrStderr(), err)
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	logger, closeLog := openLogger(cfg, cmd.ErrOrStderr())

	src, err := selectSource(cfg, cmd.InOrStdin())
	if err != nil {
		closeLog()
		return nil, err
	}

	wlog.LogRunStart(logger, wlog.RunInfo{
		Version:    Version,
		ConfigPath: config.DefaultPaths().ConfigFile(),
		Source:     src.Name(),
		Year:       cfg.History.Year,
		Mode:       cfg.Display.Mode,
	})

	session, err := loadSession(cmd.Context(), src, cfg, logger)
	if err != nil {
		closeLog()
		return nil, err
	}

	return &runContext{
		cfg:     cfg,
		logger:  logger,
		session: session,
		color:   tui.DecideColor(os.Getenv, plainOutput, cfg.Display.Color),
		close:   closeLog,
	}, nil
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	set := func(flag, key, value string) error {
		if !flags.Changed(flag) {
			return nil
		}
		if err := cfg.Set(key, value); err != nil {
			return fmt.Errorf("--%s: %w", flag, err)
		}
		return nil
	}

	if err := set("file", "history.file", historyFile); err != nil {
		return err
	}
	if err := set("shell", "history.shell", shellName); err != nil {
		return err
	}
	if err := set("db", "history.database", historyDB); err != nil {
		return err
	}
	if err := set("year", "history.year", strconv.Itoa(filterYear)); err != nil {
		return err
	}
	if plainOutput {
		cfg.Display.Mode = "plain"
	}
	return nil
}

// openLogger opens the run's logger. The log goes to the log file unless
// --log-stderr is set; if the file cannot be opened logging is disabled so
// the slides are never disturbed.
func openLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, func()) {
	level, err := wlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	var out io.Writer = io.Discard
	closer := func() {}
	switch {
	case logToStderr:
		out = stderr
	default:
		path := cfg.Log.File
		if path == "" {
			path = config.DefaultPaths().LogFile()
		}
		if f, err := wlog.OpenFile(history.ExpandHome(path)); err == nil {
			out = f
			closer = func() { _ = f.Close() }
		}
	}

	logger, _ := wlog.WithRunID(wlog.New(&wlog.Config{Output: out, Level: level}))
	return logger, closer
}

// logConfigFailure records a config that could not be loaded. With no config
// there is no log.file or log.level, so the default log file and the
// environment decide.
func logConfigFailure(stderr io.Writer, err error) {
	out := stderr
	if !logToStderr {
		f, ferr := wlog.OpenFile(config.DefaultPaths().LogFile())
		if ferr != nil {
			return
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	logger, _ := wlog.WithRunID(wlog.NewFromEnv(out))
	logger.Error("config load failed",
		"path", config.DefaultPaths().ConfigFile(),
		"error", err,
	)
}

// selectSource picks where the raw history comes from: stdin, a SQLite
// command log, or a history file.
func selectSource(cfg *config.Config, stdin io.Reader) (history.Source, error) {
	if readStdin {
		return history.ReaderSource{R: stdin, Label: "stdin"}, nil
	}
	if cfg.History.Database != "" {
		return storage.CommandLogSource{Path: history.ExpandHome(cfg.History.Database)}, nil
	}

	path, err := history.ResolvePath(cfg.History.File, cfg.History.Shell)
	if err != nil {
		if errors.Is(err, history.ErrUnsupportedShell) {
			return nil, fmt.Errorf("%w; pass --file or --shell bash|zsh", err)
		}
		return nil, err
	}
	return history.FileSource{Path: path}, nil
}

// loadSession reads, parses, filters and aggregates the history.
func loadSession(ctx context.Context, src history.Source, cfg *config.Config, logger *slog.Logger) (nav.Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	raw, err := src.ReadHistory(ctx)
	if err != nil {
		wlog.LogSourceError(logger, src.Name(), err)
		return nav.Session{}, fmt.Errorf("cannot read history from %s: %w", src.Name(), err)
	}

	records, dropped, err := history.ParseReader(strings.NewReader(raw))
	if err != nil {
		wlog.LogSourceError(logger, src.Name(), err)
		return nav.Session{}, fmt.Errorf("cannot parse history from %s: %w", src.Name(), err)
	}
	wlog.LogHistoryParsed(logger, src.Name(), len(records), dropped)

	year := cfg.History.Year
	records = history.FilterYear(records, year)
	if year != 0 {
		logger.Debug("year filter applied", "year", year, "records", len(records))
	}

	return nav.Session{
		Deck:    slides.DefaultDeck(slides.WithRedaction(cfg.Display.Redact)),
		Reports: stats.Aggregate(records),
	}, nil
}

// keyInput returns the file keys are read from: stdin, or the controlling
// terminal when stdin carries the history.
func keyInput(stdin io.Reader) (io.Reader, func(), error) {
	if !readStdin {
		return stdin, func() {}, nil
	}
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open /dev/tty for key input: %w", err)
	}
	return tty, func() { _ = tty.Close() }, nil
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) (*os.File, bool) {
	f, ok := v.(*os.File)
	if !ok {
		return nil, false
	}
	return f, term.IsTerminal(int(f.Fd()))
}

// theme returns the slide theme for out.
func (rc *runContext) theme(out io.Writer) tui.Theme {
	if !rc.color.Styled {
		return tui.PlainTheme()
	}
	return tui.NewTheme(tui.NewRendererFor(out, nil))
}

// runSlideshow is the root command: the interactive slideshow.
func runSlideshow(cmd *cobra.Command, args []string) error {
	rc, err := prepareRun(cmd)
	if err != nil {
		return err
	}
	defer rc.close()

	in, closeIn, err := keyInput(cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer closeIn()

	_, inTTY := isTerminal(in)
	if rc.cfg.Display.Mode == "tui" && !inTTY {
		wlog.LogPlainFallback(rc.logger, "key input is not a terminal")
	}
	if rc.cfg.Display.Mode == "plain" || !inTTY {
		return runLineMode(cmd, rc, in)
	}
	return runFullScreen(cmd, rc, in)
}

// runFullScreen shows the slides with the Bubble Tea front end.
func runFullScreen(cmd *cobra.Command, rc *runContext, in io.Reader) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	model := tui.NewModel(rc.session, rc.theme(out), rc.logger)
	final, err := tui.RunProgram(ctx, model, in, out)
	if err != nil {
		return err
	}
	rc.logger.Debug("slides visited", "indices", final.Visited())
	return nil
}

// runLineMode shows the slides with nav.Controller: one frame per key.
func runLineMode(cmd *cobra.Command, rc *runContext, in io.Reader) error {
	out := cmd.OutOrStdout()

	var keys *tui.TerminalKeys
	if f, ok := isTerminal(in); ok {
		k, err := tui.NewTerminalKeys(f)
		if err != nil {
			return err
		}
		keys = k
	} else {
		keys = tui.NewReaderKeys(in)
	}
	defer func() {
		if err := keys.Close(); err != nil {
			rc.logger.Warn("terminal restore failed", "error", err)
		}
	}()

	opts := []tui.WriterOption{tui.WithKeyHints(), tui.WithClear()}
	if f, ok := isTerminal(out); ok {
		opts = append(opts, tui.WithWidth(tui.TermWidth(f)))
	}
	if keys.Raw() {
		opts = append(opts, tui.WithCRLF())
	}

	controller := nav.NewController(rc.session, keys, tui.NewWriter(out, rc.theme(out), opts...), rc.logger)
	err := controller.Run()
	rc.logger.Debug("slides visited", "indices", controller.Visited())
	if errors.Is(err, io.EOF) {
		// Scripted input ran out before q.
		return nil
	}
	return err
}
