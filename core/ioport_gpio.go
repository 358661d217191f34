package core

// GPIOBank maps aux outputs onto MCU GPIO pins through a GPIODriver
type GPIOBank struct {
	driver GPIODriver
	pins   []GPIOPin
	levels []bool
}

// NewGPIOBank creates a bank where aux port n drives pins[n]
func NewGPIOBank(driver GPIODriver, pins []GPIOPin) *GPIOBank {
	return &GPIOBank{
		driver: driver,
		pins:   pins,
		levels: make([]bool, len(pins)),
	}
}

func (b *GPIOBank) Count() int {
	return len(b.pins)
}

// Explicit is true, GPIO ports are fixed by the board definition
func (b *GPIOBank) Explicit() bool {
	return true
}

func (b *GPIOBank) ConfigureOutput(n int) error {
	if n < 0 || n >= len(b.pins) {
		return ErrPortRange
	}
	if err := b.driver.ConfigureOutput(b.pins[n]); err != nil {
		return err
	}
	b.levels[n] = false
	return b.driver.SetPin(b.pins[n], false)
}

func (b *GPIOBank) Set(n int, on bool) error {
	if n < 0 || n >= len(b.pins) {
		return ErrPortRange
	}
	if err := b.driver.SetPin(b.pins[n], on); err != nil {
		return err
	}
	b.levels[n] = on
	return nil
}

func (b *GPIOBank) Get(n int) bool {
	if n < 0 || n >= len(b.levels) {
		return false
	}
	return b.levels[n]
}

func (b *GPIOBank) Name(n int) string {
	if n < 0 || n >= len(b.pins) {
		return ""
	}
	return "gpio" + utoa(uint32(b.pins[n]))
}
