package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "switchbank",
	Short: "Talk to a SwitchBank controller or simulate one",
	Long: "switchbank sends grbl command lines to a controller over serial, or runs the " +
		"controller core with the SwitchBank aux output plugin in process.",
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(termCmd, simCmd, boardsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
