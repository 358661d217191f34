package core

import (
	"errors"
	"io"
	"strings"

	"switchbank/gcode"
	"switchbank/protocol"
)

// DefaultNVSSize is the RAM NVS size used when no storage is configured
const DefaultNVSSize = 1024

// HostConfig wires the core to a board
type HostConfig struct {
	Output  io.Writer   // response stream
	Bank    OutputBank  // aux outputs
	Storage Storage     // NVS medium, nil selects RAM
	GPIO    GPIODriver  // driver for the dedicated pins, nil disables them
	Pins    MachinePins // dedicated spindle and coolant pins
	Board   string      // reported by $I
}

// PluginInit initializes a plugin against the host
type PluginInit func(h *Host) error

type plugin struct {
	name string
	init PluginInit
}

// Host is the firmware core that plugins attach to
type Host struct {
	Stream   *Stream
	Ports    *IOPorts
	NVS      *NVS
	Settings *Settings
	Events   *Events
	RT       *RTQueue

	board    string
	spindle  Spindle
	mode     SpindleRPMMode
	coolant  CoolantState
	commands *CommandRegistry
	parser   *gcode.Parser
	interp   *gcode.Interpreter
	outputs  *machineOutputs
	plugins  []plugin
}

// NewHost builds the core. The dedicated pin handlers are subscribed
// before any plugin so plugins observe events after the hardware has
// been driven.
func NewHost(cfg HostConfig) *Host {
	storage := cfg.Storage
	if storage == nil {
		storage = NewRAMStorage(DefaultNVSSize)
	}
	bank := cfg.Bank
	if bank == nil {
		bank = NewSimBank(0, false)
	}
	board := cfg.Board
	if board == "" {
		board = "generic"
	}

	h := &Host{
		Stream:   NewStream(cfg.Output),
		Ports:    NewIOPorts(bank),
		NVS:      NewNVS(storage),
		Settings: &Settings{},
		Events:   &Events{},
		RT:       &RTQueue{},
		board:    board,
		spindle:  Spindle{ID: 0, Name: "PWM", RPMMin: 0, RPMMax: 24000},
		commands: NewCommandRegistry(),
		parser:   gcode.NewParser(),
	}
	h.interp = gcode.NewInterpreter(h)
	h.outputs = newMachineOutputs(cfg.GPIO, cfg.Pins)
	h.Events.SpindleProgrammed.Subscribe(h.outputs.onSpindle)
	h.Events.CoolantSetState.Subscribe(h.outputs.onCoolant)

	registerSystemCommands(h.commands)
	return h
}

// RegisterPlugin queues a plugin to be initialized by Boot
func (h *Host) RegisterPlugin(name string, init PluginInit) {
	h.plugins = append(h.plugins, plugin{name: name, init: init})
}

// RegisterCommand adds a $ command
func (h *Host) RegisterCommand(name, help string, handler SystemHandler) bool {
	return h.commands.Register(name, help, handler)
}

// Boot initializes the registered plugins in order and writes the greeting.
// A failing plugin is logged and skipped.
func (h *Host) Boot() {
	for _, p := range h.plugins {
		if err := p.init(h); err != nil {
			DebugPrintln("[BOOT] plugin " + p.name + " failed: " + err.Error())
			continue
		}
		DebugPrintln("[BOOT] plugin " + p.name + " ready")
	}
	h.Stream.WriteLine("")
	h.Stream.WriteLine("GrblHAL 1.1f ['$' for help]")
}

// Execute runs one input line and writes its ok/error response.
// It returns the status code.
func (h *Host) Execute(line string) int {
	line = strings.TrimSpace(line)

	var err error
	switch {
	case line == "":
	case line[0] == '$':
		err = h.commands.Dispatch(h, line[1:])
	default:
		err = h.executeGCode(line)
	}

	code := statusCode(err)
	if err != nil {
		DebugPrintln("[HOST] '" + line + "': " + err.Error())
	}
	h.Stream.WriteLine(protocol.StatusResponse(code))
	return code
}

func (h *Host) executeGCode(line string) error {
	c := line[0]
	if !(c >= 'A' && c <= 'Z') && !(c >= 'a' && c <= 'z') && c != '(' && c != ';' {
		return ErrExpectedCommandLetter
	}
	cmds, err := h.parser.ParseLine(line)
	if err != nil {
		return err
	}
	return h.interp.ExecuteBlock(cmds)
}

// ExecuteRealtime runs deferred commands
func (h *Host) ExecuteRealtime() {
	h.RT.Execute()
}

// Reset notifies reset observers, then turns spindle and coolant off
// through their chains
func (h *Host) Reset() {
	h.Events.DriverReset.Fire(struct{}{})
	h.interp.Reset()
}

// ReportMessage writes a [MSG:] line
func (h *Host) ReportMessage(msg string, t MessageType) {
	h.Stream.ReportMessage(msg, t)
}

// State returns the modal spindle and coolant state
func (h *Host) State() gcode.State {
	return h.interp.GetState()
}

// Board returns the board name
func (h *Host) Board() string {
	return h.board
}

// SetSpindle implements gcode.Machine
func (h *Host) SetSpindle(on, ccw bool, rpm float32, css bool) {
	h.mode = SpindleModeRPM
	if css {
		h.mode = SpindleModeCSS
	}
	h.Events.SpindleProgrammed.Fire(SpindleEvent{
		Spindle: &h.spindle,
		State:   SpindleState{On: on, CCW: ccw},
		RPM:     rpm,
		Mode:    h.mode,
	})
}

// SetCoolant implements gcode.Machine
func (h *Host) SetCoolant(mist, flood bool) {
	h.coolant = CoolantState{Mist: mist, Flood: flood}
	h.Events.CoolantSetState.Fire(h.coolant)
}

// AuxOut implements gcode.Machine
func (h *Host) AuxOut(port uint8, on bool) error {
	return h.Ports.DigitalOut(port, on)
}

func statusCode(err error) int {
	switch {
	case err == nil:
		return protocol.StatusOK
	case errors.Is(err, ErrExpectedCommandLetter):
		return protocol.StatusExpectedCommandLetter
	case errors.Is(err, gcode.ErrBadNumberFormat):
		return protocol.StatusBadNumberFormat
	case errors.Is(err, gcode.ErrMissingPort):
		return protocol.StatusValueWordMissing
	case errors.Is(err, gcode.ErrInvalidPort), errors.Is(err, ErrPortRange):
		return protocol.StatusInvalidPort
	case errors.Is(err, ErrSettingInvalid):
		return protocol.StatusSettingOutOfRange
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrSettingUnknown), errors.Is(err, ErrInvalidStatement):
		return protocol.StatusInvalidStatement
	default:
		return protocol.StatusUnsupportedCommand
	}
}
