package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"listquest/internal/ui"
)

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show level, experience and completion counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd.Context(), opts, func(s *session) error {
				w := cmd.OutOrStdout()
				p := s.app.Progress
				fmt.Fprintln(w, ui.Heading(ui.IconTrophy, fmt.Sprintf("Level %d", p.Level())))
				fmt.Fprintln(w, ui.LabelValue("XP", fmt.Sprintf("%d (%d to level %d)", p.XP(), p.XPToNext(), p.Level()+1)))

				fmt.Fprintln(w, ui.H2.Render("Done"))
				for _, c := range p.Actions() {
					fmt.Fprintf(w, "  %-30s %d\n", c.Name, c.Count)
				}
				fmt.Fprintln(w, ui.H2.Render("Bought"))
				for _, c := range p.Purchases() {
					fmt.Fprintf(w, "  %-30s %d\n", c.Name, c.Count)
				}
				if locs := p.Locations(); len(locs) > 0 {
					fmt.Fprintln(w, ui.H2.Render("Places"))
					for _, l := range locs {
						fmt.Fprintln(w, "  "+l)
					}
				}
				return nil
			})
		},
	}
}
