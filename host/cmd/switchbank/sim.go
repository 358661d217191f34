package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"switchbank/config"
	"switchbank/core"
	"switchbank/host/mcu"
	"switchbank/host/sim"
)

var (
	simOpts = struct {
		config  string
		board   string
		ports   int
		generic bool
		debug   bool
	}{}

	simCmd = &cobra.Command{
		Use:   "sim",
		Short: "Run the controller and plugin in process",
		Long: "Run the controller core with the SwitchBank plugin against a simulated aux bank " +
			"and RAM settings storage. Lines starting with '!' are simulator commands, try !help.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSimConfig()
			if err != nil {
				return err
			}

			if cfg.Debug {
				core.SetDebugWriter(func(msg string) { fmt.Fprintln(os.Stderr, msg) })
				core.SetDebugEnabled(true)
			}

			session, err := sim.NewSession(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, session.Drain())

			m := mcu.NewMCU()
			m.Attach(session)
			return repl(os.Stdin, out, m, session.Meta, true)
		},
	}
)

// loadSimConfig reads --config if given and applies the flag overrides
func loadSimConfig() (*config.MachineConfig, error) {
	data := []byte{}
	if simOpts.config != "" {
		var err error
		if data, err = os.ReadFile(simOpts.config); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig(data)
	if err != nil {
		return nil, err
	}

	if simOpts.board != "" {
		cfg.Board = simOpts.board
		if simOpts.ports == 0 {
			board, err := config.FindBoard(cfg.Board)
			if err != nil {
				return nil, err
			}
			cfg.AuxPorts = board.PortCount()
		}
	}
	if simOpts.ports != 0 {
		cfg.AuxPorts = simOpts.ports
	}
	cfg.Generic = cfg.Generic || simOpts.generic
	cfg.Debug = cfg.Debug || simOpts.debug

	return cfg, cfg.Validate()
}

func init() {
	simCmd.Flags().StringVarP(&simOpts.config, "config", "c", "", "machine config file (JSON or YAML)")
	simCmd.Flags().StringVar(&simOpts.board, "board", "", "board name, see the boards command")
	simCmd.Flags().IntVarP(&simOpts.ports, "ports", "p", 0, "number of aux outputs (default from board)")
	simCmd.Flags().BoolVar(&simOpts.generic, "generic", false, "let the core pick aux ports on claim")
	simCmd.Flags().BoolVarP(&simOpts.debug, "debug", "v", false, "print debug output to stderr")
}
