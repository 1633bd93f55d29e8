package main

import (
	"os"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/orderbot"
	"github.com/aretw0/orderbot/internal/cli"
	"github.com/aretw0/orderbot/internal/config"
	"github.com/aretw0/orderbot/internal/presentation/tui"
	"github.com/aretw0/orderbot/pkg/runner"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot from the terminal",
	Long:  `Runs the conversation in the console. Type a number to press a button, anything else is sent as a message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := build(cmd, config.Requirements{CMS: true, Redis: true})
		if err != nil {
			return err
		}
		defer app.Close()

		userID, _ := cmd.Flags().GetString("user")

		var render runner.ContentRenderer
		if tui.IsInteractive() {
			tui.PrintBanner(os.Stdout, orderbot.Version)
			render = tui.NewRenderer()
		}

		ctx := lifecycle.NewSignalContext(cmd.Context())
		return cli.Chat(ctx, app, userID, os.Stdin, os.Stdout, render)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("user", "u", "console", "User id to chat as")
}
