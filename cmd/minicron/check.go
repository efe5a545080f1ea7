package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"minicron/internal/app"
	"minicron/internal/crontab"
	"minicron/internal/lint"
)

func newCheckCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the crontab and show when each entry runs next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := app.Settings(g.opts)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			now, err := g.reference(loc)
			if err != nil {
				return err
			}
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			entries, err := crontab.Parse(string(b))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return printCheck(cmd, path, entries, now)
		},
	}
	addAtFlag(cmd, g)
	return cmd
}

func printCheck(cmd *cobra.Command, path string, entries []*crontab.Entry, now time.Time) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d entries\n", path, len(entries))

	findings := lint.Check(entries, now)
	byLine := make(map[int]lint.Finding, len(findings))
	for _, f := range findings {
		byLine[f.Line] = f
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tSCHEDULE\tNEXT\tCOMMAND")
	for _, e := range entries {
		next := "never"
		if t, err := e.Schedule.Next(now); err == nil {
			next = t.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Line, e.Spec, next, e.Command)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, e := range entries {
		f, ok := byLine[e.Line]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "line %d: %s: %s\n", f.Line, f.Severity, f.Message)
		if !f.Standard.IsZero() {
			fmt.Fprintf(out, "  standard cron would run it first at %s\n", f.Standard.Format(time.RFC3339))
		}
	}
	return nil
}
