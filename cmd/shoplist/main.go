// Package main provides the shoplist client: a terminal UI over the shopping
// list API plus one-shot subcommands for scripting.
package main

import (
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/kahvecikaan/shopping-list/internal/client"
	"github.com/kahvecikaan/shopping-list/internal/ui"
	"github.com/spf13/cobra"
	"os"
)

const defaultAPIURL = "http://localhost:9090"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✖ "+err.Error()))
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	apiURL string
	api    *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	runUI := func(cmd *cobra.Command, args []string) error {
		return ui.Run(a.api)
	}

	root := &cobra.Command{
		Use:   "shoplist",
		Short: "shoplist manages a shopping list served by the shopping list API",
		Long: `shoplist talks to the shopping list API.

Run without a subcommand to open the interactive list. The API address comes
from --api-url or SHOPLIST_API_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			api, err := client.New(a.apiURL)
			if err != nil {
				return err
			}
			a.api = api
			return nil
		},
		RunE: runUI,
	}

	apiURL := os.Getenv("SHOPLIST_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", apiURL, "base URL of the shopping list API (env SHOPLIST_API_URL)")

	root.AddCommand(&cobra.Command{
		Use:   "ui",
		Short: "Open the interactive list",
		Args:  cobra.NoArgs,
		RunE:  runUI,
	})
	root.AddCommand(a.listCmd(), a.addCmd(), a.doneCmd(), a.removeCmd())

	return root
}
