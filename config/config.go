package config

import (
	"bytes"
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"

	"switchbank/core"
)

var ErrPortCount = errors.New("aux port count out of range")

// MachineConfig selects a board and overrides for a host run
type MachineConfig struct {
	Board    string `json:"board" yaml:"board"`
	AuxPorts int    `json:"aux_ports" yaml:"aux_ports"` // simulated bank size, 0 uses the board
	Generic  bool   `json:"generic" yaml:"generic"`     // force core-assigned claiming
	NVSSize  int    `json:"nvs_size" yaml:"nvs_size"`
	Debug    bool   `json:"debug" yaml:"debug"`
}

// LoadConfig parses a JSON or YAML configuration and applies defaults.
// Input starting with '{' is JSON.
func LoadConfig(data []byte) (*MachineConfig, error) {
	var config MachineConfig

	var err error
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &config)
	} else {
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *MachineConfig) {
	if config.Board == "" {
		config.Board = "generic"
	}
	if config.NVSSize == 0 {
		config.NVSSize = core.DefaultNVSSize
	}
	if config.AuxPorts == 0 {
		if board, err := FindBoard(config.Board); err == nil {
			config.AuxPorts = board.PortCount()
		}
	}
}

// DefaultConfig returns the configuration of the generic board
func DefaultConfig() *MachineConfig {
	config := &MachineConfig{}
	applyDefaults(config)
	return config
}

// Validate checks the board exists and the overrides are usable
func (c *MachineConfig) Validate() error {
	board, err := FindBoard(c.Board)
	if err != nil {
		return err
	}
	if err := board.Validate(); err != nil {
		return err
	}
	if c.AuxPorts < 0 || c.AuxPorts >= int(core.PortUnclaimed) {
		return ErrPortCount
	}
	if c.NVSSize < core.NVSCoreSize {
		return core.ErrNVSRange
	}
	return nil
}

// Explicit reports whether the configured bank supports claiming by number
func (c *MachineConfig) Explicit() bool {
	board, err := FindBoard(c.Board)
	return err == nil && board.Explicit() && !c.Generic
}
