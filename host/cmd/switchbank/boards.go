package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"switchbank/config"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List known boards",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, name := range config.All().Names() {
			board, _ := config.FindBoard(name)
			claim := "explicit"
			if !board.Explicit() {
				claim = "generic"
			}
			fmt.Fprintf(out, "%-16s %3d aux outputs, %s claim", board.Name, board.PortCount(), claim)
			if board.EEPROM != nil {
				fmt.Fprintf(out, ", eeprom 0x%02x", board.EEPROM.Address)
			}
			if len(board.Aliases) > 0 {
				fmt.Fprintf(out, " (%s)", strings.Join(board.Aliases, ", "))
			}
			fmt.Fprintln(out)
		}
	},
}
