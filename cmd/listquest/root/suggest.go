package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSuggestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Autocomplete a title from names used before",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd.Context(), opts, func(s *session) error {
				fmt.Fprintln(cmd.OutOrStdout(), s.app.Suggest(args[0]))
				return nil
			})
		},
	}
}
