package main

import (
	"errors"
	"fmt"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"github.com/spf13/cobra"
	"io"
	"strconv"
	"strings"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print every item on the list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.api.ListItems(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("Nothing on the list yet."))
				return nil
			}
			for _, it := range items {
				printItem(out, it)
			}
			return nil
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <description...>",
		Short: "Add an item",
		Example: `  shoplist add Milk
  shoplist add "Free range eggs"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.TrimSpace(strings.Join(args, " "))
			if description == "" {
				return errors.New("Item description cannot be empty.")
			}

			item, err := a.api.AddItem(cmd.Context(), description)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✔ added"))
			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle an item between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			item, err := a.api.GetItem(cmd.Context(), id)
			if err != nil {
				return err
			}

			item.IsDone = !item.IsDone
			if err := a.api.UpdateItem(cmd.Context(), item); err != nil {
				return err
			}

			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := a.api.DeleteItem(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✔ removed %d", id)))
			return nil
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}

func printItem(w io.Writer, it domain.Item) {
	box := "☐"
	text := it.Description
	if it.IsDone {
		box = successStyle.Render("☑")
		text = doneStyle.Render(text)
	}
	fmt.Fprintf(w, "%3d %s %s\n", it.ID, box, text)
}
