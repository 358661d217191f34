package main

import (
	"os"

	"github.com/spf13/cobra"

	"switchbank/host/mcu"
	"switchbank/host/serial"
)

var (
	termOpts = struct {
		device  string
		baud    int
		timeout int
	}{}

	termCmd = &cobra.Command{
		Use:   "term [lines...]",
		Short: "Send command lines to a controller",
		Long:  "Send the given lines to a controller and print the responses. Without lines, read them from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := serial.DefaultConfig(termOpts.device)
			cfg.Baud = termOpts.baud
			cfg.ReadTimeout = termOpts.timeout

			m := mcu.NewMCU()
			if err := m.ConnectWithConfig(cfg); err != nil {
				return err
			}
			defer m.Close()

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, line := range args {
					send(out, m, line)
				}
				return nil
			}
			return repl(os.Stdin, out, m, nil, true)
		},
	}
)

func init() {
	termCmd.Flags().StringVarP(&termOpts.device, "device", "d", "/dev/ttyACM0", "serial device path")
	termCmd.Flags().IntVarP(&termOpts.baud, "baud", "b", 115200, "baud rate (ignored for USB CDC)")
	termCmd.Flags().IntVar(&termOpts.timeout, "read-timeout", 100, "read timeout in milliseconds")
}
