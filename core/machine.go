package core

// SpindleState is the commanded spindle state
type SpindleState struct {
	On  bool
	CCW bool
}

// SpindleRPMMode selects fixed RPM or constant surface speed
type SpindleRPMMode uint8

const (
	SpindleModeRPM SpindleRPMMode = iota // G97
	SpindleModeCSS                       // G96
)

// Spindle describes a spindle the core can drive
type Spindle struct {
	ID     uint8
	Name   string
	RPMMin float32
	RPMMax float32
}

// SpindleEvent is fired on SpindleProgrammed after a spindle command
type SpindleEvent struct {
	Spindle *Spindle
	State   SpindleState
	RPM     float32
	Mode    SpindleRPMMode
}

// CoolantState is the full coolant state after a coolant command
type CoolantState struct {
	Flood bool
	Mist  bool
}

// MachinePins are the board's dedicated spindle and coolant outputs.
// PinNone disables an output.
type MachinePins struct {
	SpindleEnable GPIOPin
	SpindleDir    GPIOPin
	Flood         GPIOPin
	Mist          GPIOPin
}

// NoMachinePins disables every dedicated output
var NoMachinePins = MachinePins{
	SpindleEnable: PinNone,
	SpindleDir:    PinNone,
	Flood:         PinNone,
	Mist:          PinNone,
}

// machineOutputs drives the dedicated pins. Its handlers are the first
// observers on the spindle and coolant chains.
type machineOutputs struct {
	driver GPIODriver
	pins   MachinePins
}

func newMachineOutputs(driver GPIODriver, pins MachinePins) *machineOutputs {
	m := &machineOutputs{driver: driver, pins: pins}
	if driver == nil {
		return m
	}
	for _, pin := range []GPIOPin{pins.SpindleEnable, pins.SpindleDir, pins.Flood, pins.Mist} {
		if pin == PinNone {
			continue
		}
		if err := driver.ConfigureOutput(pin); err != nil {
			DebugPrintln("[MACHINE] pin " + utoa(uint32(pin)) + " configure failed: " + err.Error())
		}
	}
	return m
}

func (m *machineOutputs) set(pin GPIOPin, on bool) {
	if m.driver == nil || pin == PinNone {
		return
	}
	if err := m.driver.SetPin(pin, on); err != nil {
		DebugPrintln("[MACHINE] pin " + utoa(uint32(pin)) + " write failed: " + err.Error())
	}
}

func (m *machineOutputs) onSpindle(ev SpindleEvent) {
	// Direction before enable
	if ev.State.On {
		m.set(m.pins.SpindleDir, ev.State.CCW)
	}
	m.set(m.pins.SpindleEnable, ev.State.On)
}

func (m *machineOutputs) onCoolant(cs CoolantState) {
	m.set(m.pins.Flood, cs.Flood)
	m.set(m.pins.Mist, cs.Mist)
}
