package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// PinNone marks an unused dedicated pin in a board definition
const PinNone GPIOPin = 0xFFFFFFFF

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	// Returns error if pin is invalid
	ConfigureOutput(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current pin state
	GetPin(pin GPIOPin) (bool, error)
}

// Global singleton used by core code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}

// MemGPIO is an in-memory GPIODriver for host builds and tests
type MemGPIO struct {
	configured map[GPIOPin]bool
	levels     map[GPIOPin]bool
}

// NewMemGPIO creates an empty in-memory GPIO driver
func NewMemGPIO() *MemGPIO {
	return &MemGPIO{
		configured: make(map[GPIOPin]bool),
		levels:     make(map[GPIOPin]bool),
	}
}

func (m *MemGPIO) ConfigureOutput(pin GPIOPin) error {
	if pin == PinNone {
		return ErrInvalidPin
	}
	m.configured[pin] = true
	return nil
}

func (m *MemGPIO) SetPin(pin GPIOPin, value bool) error {
	if !m.configured[pin] {
		return ErrPinNotConfigured
	}
	m.levels[pin] = value
	return nil
}

func (m *MemGPIO) GetPin(pin GPIOPin) (bool, error) {
	return m.levels[pin], nil
}

// Configured reports whether pin was set up as an output
func (m *MemGPIO) Configured(pin GPIOPin) bool {
	return m.configured[pin]
}
