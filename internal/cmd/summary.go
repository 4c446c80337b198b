package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runger/wrapped/internal/tui"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print every slide once, without key input",
		Long: `Print every slide once, in order, and exit.

Useful for piping into a pager or saving a copy of your year:
  wrapped summary --year 2024 > my-year.txt`,
		Args: cobra.NoArgs,
		RunE: runSummary,
	}
}

func runSummary(cmd *cobra.Command, args []string) error {
	rc, err := prepareRun(cmd)
	if err != nil {
		return err
	}
	defer rc.close()

	out := cmd.OutOrStdout()
	theme := tui.PlainTheme()
	var opts []tui.WriterOption
	if f, ok := isTerminal(out); ok {
		theme = rc.theme(out)
		opts = append(opts, tui.WithWidth(tui.TermWidth(f)))
	}
	w := tui.NewWriter(out, theme, opts...)

	for i := 0; i < rc.session.Deck.Len(); i++ {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := w.Render(rc.session.Frame(i)); err != nil {
			return err
		}
	}
	return nil
}
