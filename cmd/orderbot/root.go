package main

import (
	"fmt"
	"os"

	"github.com/aretw0/orderbot/internal/cli"
	"github.com/aretw0/orderbot/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "orderbot",
	Short:         "orderbot is a conversational order-taking bot",
	Long:          `orderbot lets shop customers browse a CMS-backed catalog, fill a cart and check out from a chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML config file (default ./"+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().Bool("demo", false, "Use the built-in demo catalog and in-memory sessions")
	rootCmd.PersistentFlags().Bool("memory", false, "Keep sessions in memory instead of Redis")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

func globalOptions(cmd *cobra.Command) cli.Options {
	path, _ := cmd.Flags().GetString("config")
	demo, _ := cmd.Flags().GetBool("demo")
	mem, _ := cmd.Flags().GetBool("memory")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{ConfigPath: path, Demo: demo, MemoryStore: mem, Debug: debug}
}

// build assembles the app for a command. The caller must Close it.
func build(cmd *cobra.Command, req config.Requirements) (*cli.App, error) {
	return cli.Build(cmd.Context(), globalOptions(cmd), req)
}
