package cmd

import (
	"github.com/spf13/cobra"
)

// Flags shared by the slideshow and summary commands.
var (
	historyFile string
	historyDB   string
	shellName   string
	readStdin   bool
	filterYear  int
	plainOutput bool
	logToStderr bool
)

// newRootCmd builds the command tree. Building it fresh resets every flag
// to its default.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wrapped",
		Short: "your year in the terminal, one slide at a time",
		Long: `wrapped - your year in the terminal, one slide at a time
  - reads your bash or zsh history (or a SQLite command log)
  - n/space next, p previous, q quit`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runSlideshow,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&historyFile, "file", "f", "", "history file to read (default: $HISTFILE or the shell's history)")
	flags.StringVar(&shellName, "shell", "", "shell whose default history to read: bash or zsh (default: from $SHELL)")
	flags.StringVar(&historyDB, "db", "", "read a SQLite command log instead of a history file")
	flags.BoolVar(&readStdin, "stdin", false, "read history from standard input")
	flags.IntVar(&filterYear, "year", 0, "only include commands from this year")
	flags.BoolVar(&plainOutput, "plain", false, "line mode without colors or full-screen UI")
	flags.BoolVar(&logToStderr, "log-stderr", false, "write the log to stderr instead of the log file")

	root.AddCommand(summaryCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())
	return root
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}
