package main

import (
	"fmt"

	"github.com/aretw0/orderbot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of orderbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("orderbot version %s\n", orderbot.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
