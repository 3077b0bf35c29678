package root

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"listquest/internal/app"
	"listquest/internal/records"
	"listquest/internal/ui"
)

func newItemCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"shop"},
		Short:   "Manage the shopping list",
	}
	cmd.AddCommand(
		newItemAddCmd(opts),
		newItemListCmd(opts),
		newItemBuyCmd(opts),
		newItemRmCmd(opts),
		newItemSortCmd(opts),
	)
	return cmd
}

func newItemAddCmd(opts *options) *cobra.Command {
	var (
		qty      string
		location string
		unit     string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an item to the shopping list",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := records.ParseQuantity(qty)
			if err != nil {
				return err
			}
			u, err := records.ParseUnit(unit)
			if err != nil {
				return err
			}
			return mutate(cmd.Context(), opts, func(s *session) error {
				r, err := s.app.AddItem(app.ItemInput{Title: args[0], Quantity: q, Location: location, Unit: u})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(fmt.Sprintf("Added item #%d", r.ID())), r.Item().Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&qty, "qty", "n", "", "Quantity (non-negative integer)")
	cmd.Flags().StringVar(&location, "location", "", "Where to buy it")
	cmd.Flags().StringVarP(&unit, "unit", "u", "units", "Unit (units|ounces|pounds|milligrams|grams|kilograms)")
	return cmd
}

func newItemListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the shopping list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd.Context(), opts, func(s *session) error {
				printItems(cmd.OutOrStdout(), "Shopping", s.app.Items)
				return nil
			})
		},
	}
}

func printItems(w io.Writer, title string, store *records.Store) {
	fmt.Fprintln(w, ui.Heading(ui.IconCart, title))
	if store.Len() == 0 {
		fmt.Fprintln(w, ui.Muted.Render("  nothing here"))
		return
	}
	for r := range store.All() {
		it := r.Item()
		line := fmt.Sprintf("%4d  %s", r.ID(), it.Title)
		if it.Quantity != nil {
			line += fmt.Sprintf(" (%d %s)", *it.Quantity, it.Unit)
		}
		if it.Location != "" {
			line += ui.Muted.Render(" @ " + it.Location)
		}
		fmt.Fprintln(w, line)
	}
}

func newItemBuyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <id>",
		Short: "Mark an item as purchased",
		Args:  idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID(args[0])
			return mutate(cmd.Context(), opts, func(s *session) error {
				c, err := s.app.PurchaseItem(id)
				if err != nil {
					return err
				}
				printAward(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
}

func newItemRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an item without purchasing it",
		Args:  idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := parseID(args[0])
			return mutate(cmd.Context(), opts, func(s *session) error {
				if err := s.app.DeleteItem(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted item #%d\n", id)
				return nil
			})
		},
	}
}

func newItemSortCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Sort the shopping list by location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd.Context(), opts, func(s *session) error {
				if err := s.app.Sort(app.ListItems); err != nil {
					return err
				}
				printItems(cmd.OutOrStdout(), "Sorted", s.app.Items)
				return nil
			})
		},
	}
}
