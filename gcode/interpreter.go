package gcode

// Machine is the controller the interpreter drives
type Machine interface {
	// SetSpindle applies a complete spindle state
	SetSpindle(on, ccw bool, rpm float32, css bool)

	// SetCoolant applies a complete coolant state
	SetCoolant(mist, flood bool)

	// AuxOut drives aux digital output port
	AuxOut(port uint8, on bool) error
}

// State is the modal spindle and coolant state
type State struct {
	SpindleOn bool
	CCW       bool
	RPM       float32
	CSS       bool
	Mist      bool
	Flood     bool
}

// Interpreter executes G-code commands
type Interpreter struct {
	state   State
	machine Machine
}

// NewInterpreter creates a new G-code interpreter
func NewInterpreter(machine Machine) *Interpreter {
	return &Interpreter{machine: machine}
}

// ExecuteBlock runs the commands of one block in order
func (interp *Interpreter) ExecuteBlock(cmds []*Command) error {
	for _, cmd := range cmds {
		if err := interp.Execute(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Execute executes a parsed G-code command
func (interp *Interpreter) Execute(cmd *Command) error {
	if cmd == nil {
		return nil
	}

	switch cmd.Type {
	case 'G':
		interp.executeG(cmd)
	case 'M':
		return interp.executeM(cmd)
	case 0:
		if cmd.HasParameter('S') {
			interp.setRPM(cmd)
		}
	}

	return nil
}

// executeG handles G-codes
func (interp *Interpreter) executeG(cmd *Command) {
	switch cmd.Number {
	case 96: // G96 - Constant surface speed
		interp.state.CSS = true
	case 97: // G97 - RPM mode
		interp.state.CSS = false
	}
	if cmd.HasParameter('S') {
		interp.setRPM(cmd)
	}
}

// executeM handles M-codes
func (interp *Interpreter) executeM(cmd *Command) error {
	if cmd.HasParameter('S') {
		interp.state.RPM = float32(cmd.GetParameter('S', 0))
	}

	switch cmd.Number {
	case 3, 4: // M3/M4 - Spindle on CW/CCW
		interp.state.SpindleOn = true
		interp.state.CCW = cmd.Number == 4
		interp.syncSpindle()
	case 5: // M5 - Spindle off
		interp.state.SpindleOn = false
		interp.syncSpindle()
	case 7: // M7 - Mist on
		interp.state.Mist = true
		interp.syncCoolant()
	case 8: // M8 - Flood on
		interp.state.Flood = true
		interp.syncCoolant()
	case 9: // M9 - Coolant off
		interp.state.Mist = false
		interp.state.Flood = false
		interp.syncCoolant()
	case 62, 64: // M62/M64 - Aux output on
		return interp.auxOut(cmd, true)
	case 63, 65: // M63/M65 - Aux output off
		return interp.auxOut(cmd, false)
	}

	// S alongside another M word still updates a running spindle
	if cmd.HasParameter('S') && interp.state.SpindleOn && cmd.Number != 3 && cmd.Number != 4 {
		interp.syncSpindle()
	}
	return nil
}

// setRPM updates the programmed speed, resyncing a running spindle
func (interp *Interpreter) setRPM(cmd *Command) {
	interp.state.RPM = float32(cmd.GetParameter('S', 0))
	if interp.state.SpindleOn {
		interp.syncSpindle()
	}
}

// auxOut handles M62-M65. With no motion queue the synchronized
// forms act immediately like M64/M65.
func (interp *Interpreter) auxOut(cmd *Command, on bool) error {
	if !cmd.HasParameter('P') {
		return ErrMissingPort
	}
	p := cmd.GetParameter('P', 0)
	if p < 0 || p > 254 || p != float64(int(p)) {
		return ErrInvalidPort
	}
	return interp.machine.AuxOut(uint8(p), on)
}

func (interp *Interpreter) syncSpindle() {
	s := &interp.state
	interp.machine.SetSpindle(s.SpindleOn, s.CCW, s.RPM, s.CSS)
}

func (interp *Interpreter) syncCoolant() {
	interp.machine.SetCoolant(interp.state.Mist, interp.state.Flood)
}

// Reset turns the spindle and coolant off
func (interp *Interpreter) Reset() {
	interp.state.SpindleOn = false
	interp.state.CCW = false
	interp.state.CSS = false
	interp.state.Mist = false
	interp.state.Flood = false
	interp.syncSpindle()
	interp.syncCoolant()
}

// GetState returns the current modal state
func (interp *Interpreter) GetState() State {
	return interp.state
}
