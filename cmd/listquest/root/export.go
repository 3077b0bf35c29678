package root

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"listquest/internal/report"
	"listquest/internal/ui"
)

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write the shopping list and stats to a PDF",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd.Context(), opts, func(s *session) error {
				today := s.app.Today()
				path := filepath.Join(s.cfg.ExportDir, report.FileName(today))
				if len(args) == 1 {
					path = args[0]
				}
				abs, err := report.WriteFile(path, s.app, today)
				if err != nil {
					return err
				}
				s.logger.Info("report exported", "path", abs)
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("PDF written: "+abs))
				return nil
			})
		},
	}
}
