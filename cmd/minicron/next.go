package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"minicron/internal/app"
	"minicron/internal/crontab"
)

func newNextCmd(g *globalFlags) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the upcoming run times of every entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("-n must be at least 1")
			}
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

			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%d: %s %s\n", e.Line, e.Spec, e.Command)
				t := now
				for i := 0; i < count; i++ {
					next, err := e.Schedule.Next(t)
					if err != nil {
						fmt.Fprintf(out, "  never (%v)\n", err)
						break
					}
					fmt.Fprintf(out, "  %s\n", next.Format(time.RFC3339))
					t = next.Add(time.Minute)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of run times per entry")
	addAtFlag(cmd, g)
	return cmd
}
