package main

import (
	"os"

	"github.com/aretw0/orderbot/internal/cli"
	"github.com/aretw0/orderbot/internal/config"
	"github.com/aretw0/orderbot/internal/presentation/tui"
	"github.com/aretw0/orderbot/pkg/runner"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the CMS catalog",
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := build(cmd, config.Requirements{CMS: true})
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.ListProducts(cmd.Context(), app, os.Stdout, renderer(cmd))
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <product-id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := build(cmd, config.Requirements{CMS: true})
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.ShowProduct(cmd.Context(), app, args[0], os.Stdout, renderer(cmd))
	},
}

var catalogCartCmd = &cobra.Command{
	Use:   "cart <cart-id>",
	Short: "Show a cart with its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := build(cmd, config.Requirements{CMS: true})
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.ShowCart(cmd.Context(), app, args[0], os.Stdout, renderer(cmd))
	},
}

// renderer returns the markdown renderer unless --raw is set or stdout is not a terminal.
func renderer(cmd *cobra.Command) runner.ContentRenderer {
	if raw, _ := cmd.Flags().GetBool("raw"); raw || !tui.IsInteractive() {
		return nil
	}
	return tui.NewRenderer()
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLsCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogCartCmd)

	catalogCmd.PersistentFlags().Bool("raw", false, "Print markdown without rendering")
}
