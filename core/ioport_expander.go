package core

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/mcp23017"
)

// ExpanderBank maps aux outputs onto MCP23017 I2C port expanders.
// Port n is pin n%16 of expander n/16.
type ExpanderBank struct {
	devs   mcp23017.Devices
	addrs  []uint8
	levels []bool
}

// NewExpanderBank probes the expanders at addrs on bus and exposes
// all of their pins as aux outputs
func NewExpanderBank(bus drivers.I2C, addrs ...uint8) (*ExpanderBank, error) {
	devs, err := mcp23017.NewI2CDevices(bus, addrs...)
	if err != nil {
		return nil, err
	}
	return &ExpanderBank{
		devs:   devs,
		addrs:  addrs,
		levels: make([]bool, len(devs)*mcp23017.PinCount),
	}, nil
}

func (b *ExpanderBank) Count() int {
	return len(b.levels)
}

// Explicit is false, the core assigns expander pins on claim
func (b *ExpanderBank) Explicit() bool {
	return false
}

func (b *ExpanderBank) ConfigureOutput(n int) error {
	if n < 0 || n >= len(b.levels) {
		return ErrPortRange
	}
	pin := b.devs.Pin(n)
	if err := pin.SetMode(mcp23017.Output); err != nil {
		return err
	}
	if err := pin.Set(false); err != nil {
		return err
	}
	b.levels[n] = false
	return nil
}

func (b *ExpanderBank) Set(n int, on bool) error {
	if n < 0 || n >= len(b.levels) {
		return ErrPortRange
	}
	if err := b.devs.Pin(n).Set(on); err != nil {
		return err
	}
	b.levels[n] = on
	return nil
}

func (b *ExpanderBank) Get(n int) bool {
	if n < 0 || n >= len(b.levels) {
		return false
	}
	return b.levels[n]
}

func (b *ExpanderBank) Name(n int) string {
	if n < 0 || n >= len(b.levels) {
		return ""
	}
	dev := n / mcp23017.PinCount
	pin := n % mcp23017.PinCount
	port := "A"
	if pin >= 8 {
		port = "B"
		pin -= 8
	}
	return "mcp" + hex8(b.addrs[dev]) + ".GP" + port + utoa(uint32(pin))
}
