package main

import (
	"github.com/aretw0/lifecycle"
	"github.com/aretw0/orderbot/internal/cli"
	"github.com/aretw0/orderbot/internal/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API only",
	Long:  `Exposes POST /events, session administration, /health and /metrics over HTTP, without Telegram.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := build(cmd, config.Requirements{CMS: true, Redis: true})
		if err != nil {
			return err
		}
		defer app.Close()

		addr := app.Config.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		ctx := lifecycle.NewSignalContext(cmd.Context())
		return cli.Serve(ctx, app, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides HTTP_ADDR)")
}
