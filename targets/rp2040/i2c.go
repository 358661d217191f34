//go:build rp2040 || rp2350

package main

import (
	"machine"

	"switchbank/config"
)

// initI2C configures I2C0 on the board's pins for the EEPROM and
// expanders. It returns nil when the board has no I2C peripherals.
func initI2C(cfg *config.I2C) (*machine.I2C, error) {
	if cfg == nil {
		return nil, nil
	}

	frequency := cfg.Frequency
	if frequency == 0 {
		frequency = 400 * machine.KHz
	}

	i2c := machine.I2C0
	err := i2c.Configure(machine.I2CConfig{
		Frequency: frequency,
		SDA:       machine.Pin(cfg.SDA),
		SCL:       machine.Pin(cfg.SCL),
	})
	if err != nil {
		return nil, err
	}
	return i2c, nil
}
