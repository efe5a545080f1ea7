package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"minicron/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	opts app.Options
	at   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "minicron",
		Short: "minicron - a per-user crontab daemon",
		Long: `minicron runs the commands of a single crontab file at the minutes its
schedules name. The file is watched and reloaded on every change; a file that
fails to parse schedules nothing until it is fixed.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd, g.opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.opts.ConfigPath, "config", "", "settings file, YAML or JSON (default is <user config dir>/minicron/config.yaml)")
	pf.StringVar(&g.opts.CrontabPath, "crontab", "", "crontab file (default is ~/.config/minicron/crontab)")
	pf.StringVar(&g.opts.LogLevel, "log-level", "", "trace, debug, info, warn or error")

	root.AddCommand(
		newRunCmd(g),
		newCheckCmd(g),
		newNextCmd(g),
		newVersionCmd(),
	)
	return root
}

// reference returns the instant check and next evaluate from, in loc.
func (g *globalFlags) reference(loc *time.Location) (time.Time, error) {
	if g.at == "" {
		return time.Now().In(loc), nil
	}
	t, err := time.Parse(time.RFC3339, g.at)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return t.In(loc), nil
}

func addAtFlag(cmd *cobra.Command, g *globalFlags) {
	cmd.Flags().StringVar(&g.at, "at", "", "evaluate from this RFC 3339 instant instead of now")
}
