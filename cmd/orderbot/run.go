package main

import (
	"context"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/orderbot/internal/cli"
	"github.com/aretw0/orderbot/internal/config"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Telegram bot",
	Long:  `Polls Telegram for updates. Unless --no-http is given, the HTTP API with /health and /metrics is served as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := build(cmd, config.Requirements{Telegram: true, CMS: true, Redis: true})
		if err != nil {
			return err
		}
		defer app.Close()

		addr := app.Config.HTTPAddr
		if noHTTP, _ := cmd.Flags().GetBool("no-http"); noHTTP {
			addr = ""
		}

		ctx := lifecycle.NewSignalContext(cmd.Context())
		err = cli.RunTelegram(ctx, app, addr)
		if ctx.Err() != nil {
			app.Logger.Info("shutting down", "cause", context.Cause(ctx))
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("no-http", false, "Do not serve the HTTP API")
}
