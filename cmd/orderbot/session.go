package main

import (
	"os"

	"github.com/aretw0/orderbot/internal/cli"
	"github.com/aretw0/orderbot/internal/config"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored conversation sessions",
	Long:  `List, inspect, reset and remove the sessions kept in the session store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := build(cmd, config.Requirements{Redis: true})
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.ListSessions(cmd.Context(), app, os.Stdout)
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <user-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withCart, _ := cmd.Flags().GetBool("cart")
		req := config.Requirements{Redis: true, CMS: withCart}

		app, err := build(cmd, req)
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.InspectSession(cmd.Context(), app, args[0], withCart, os.Stdout)
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <user-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := build(cmd, config.Requirements{Redis: true})
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.RemoveSessions(cmd.Context(), app, args, os.Stdout)
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset <user-id>",
	Short: "Send a user back to the start of the conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := build(cmd, config.Requirements{Redis: true})
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.ResetSession(cmd.Context(), app, args[0], os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionCmd.AddCommand(sessionResetCmd)

	sessionInspectCmd.Flags().Bool("cart", false, "Fetch the cart content from the CMS")
}
