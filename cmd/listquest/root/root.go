package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"listquest/internal/ui"
)

const Version = "0.1.0"

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	dbPath     string
	today      string
}

// isTerminal reports whether stdout is interactive.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "listquest",
		Short:         "Local to-do and shopping lists that level you up",
		Long:          "listquest keeps today's tasks, repeating tasks and a shopping list in a local SQLite file, and turns finished work into experience.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isTerminal() {
				return runTUI(cmd, opts)
			}
			return runTaskList(cmd, opts, false)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default $LISTQUEST_CONFIG or the user config dir)")
	pf.StringVar(&opts.dbPath, "db", "", "Database file (overrides db_path from the config)")
	pf.StringVar(&opts.today, "today", "", "Treat this date (YYYY-MM-DD) as today")
	_ = pf.MarkHidden("today")

	cmd.AddCommand(
		newTaskCmd(opts),
		newItemCmd(opts),
		newStatsCmd(opts),
		newSuggestCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconWarn+" "+err.Error()))
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, opts *options) error {
	s, err := openSession(cmd.Context(), opts, true)
	if err != nil {
		return err
	}
	defer s.close()

	if err := ui.Run(s.app, s.cfg); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return s.save(cmd.Context())
}
