// Package sim runs the controller core and the SwitchBank plugin in
// process behind a serial.Port
package sim

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"

	"switchbank/config"
	"switchbank/core"
	"switchbank/plugins/switchbank"
	"switchbank/protocol"
)

var ErrUnknownMeta = errors.New("unknown meta command")

// ctrlX is the grbl realtime soft reset character
const ctrlX = 0x18

// Session is a simulated controller. Bytes written to it are executed
// as command lines; responses are read back.
type Session struct {
	mu sync.Mutex

	cfg     *config.MachineConfig
	board   config.Board
	storage *core.RAMStorage

	Host   *core.Host
	Plugin *switchbank.Plugin // nil when the plugin refused to start
	Bank   core.OutputBank
	GPIO   *core.MemGPIO

	line protocol.LineBuffer
	out  bytes.Buffer
}

// NewSession boots a simulated controller for cfg
func NewSession(cfg *config.MachineConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	board, err := config.FindBoard(cfg.Board)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:     cfg,
		board:   board,
		storage: core.NewRAMStorage(cfg.NVSSize),
	}
	s.boot()
	return s, nil
}

// boot builds a fresh core over the session's storage, as after a
// power cycle
func (s *Session) boot() {
	s.GPIO = core.NewMemGPIO()

	pins := s.board.GPIOPins()
	if s.cfg.Explicit() && s.cfg.AuxPorts <= len(pins) {
		s.Bank = core.NewGPIOBank(s.GPIO, pins[:s.cfg.AuxPorts])
	} else {
		s.Bank = core.NewSimBank(s.cfg.AuxPorts, s.cfg.Explicit())
	}

	s.Plugin = nil
	s.line.Reset()
	s.Host = core.NewHost(core.HostConfig{
		Output:  &s.out,
		Bank:    s.Bank,
		Storage: s.storage,
		GPIO:    s.GPIO,
		Pins:    s.board.MachinePins(),
		Board:   s.board.Name,
	})
	s.Host.RegisterPlugin("switchbank", func(h *core.Host) error {
		p, err := switchbank.Init(h)
		s.Plugin = p
		return err
	})
	s.Host.Boot()
	s.Host.ExecuteRealtime()
}

// Write feeds input to the line assembler and executes complete lines
func (s *Session) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range b {
		if c == ctrlX {
			s.Host.RT.Enqueue(s.Host.Reset)
			continue
		}
		line, ok := s.line.Feed(c)
		if !ok {
			continue
		}
		if s.line.Overflowed() {
			s.Host.Stream.WriteLine(protocol.StatusResponse(protocol.StatusOverflow))
			continue
		}
		s.Host.Execute(string(line))
		s.Host.ExecuteRealtime()
	}
	s.Host.ExecuteRealtime()
	return len(b), nil
}

// Read returns pending output, io.EOF when there is none
func (s *Session) Read(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out.Len() == 0 {
		return 0, io.EOF
	}
	return s.out.Read(b)
}

// Drain returns and clears pending output
func (s *Session) Drain() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.out.String()
	s.out.Reset()
	return out
}

func (s *Session) Flush() error {
	return nil
}

func (s *Session) Close() error {
	return nil
}

// Meta runs a simulator command: ports, state, reset, reboot,
// nvs wipe, nvs dump
func (s *Session) Meta(args []string, w io.Writer) error {
	if len(args) == 0 {
		return ErrUnknownMeta
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch args[0] {
	case "help":
		fmt.Fprintln(w, "!ports      aux output levels and owners")
		fmt.Fprintln(w, "!state      spindle and coolant state")
		fmt.Fprintln(w, "!reset      soft reset")
		fmt.Fprintln(w, "!reboot     power cycle, keeps NVS")
		fmt.Fprintln(w, "!nvs wipe   erase NVS and reboot")
		fmt.Fprintln(w, "!nvs dump   hex dump of used NVS")
	case "ports":
		s.printPorts(w)
	case "state":
		st := s.Host.State()
		fmt.Fprintf(w, "spindle=%v ccw=%v rpm=%.0f css=%v mist=%v flood=%v\n",
			st.SpindleOn, st.CCW, st.RPM, st.CSS, st.Mist, st.Flood)
	case "reset":
		s.Host.Reset()
		s.Host.ExecuteRealtime()
	case "reboot":
		s.boot()
	case "nvs":
		if len(args) != 2 {
			return ErrUnknownMeta
		}
		switch args[1] {
		case "wipe":
			data := s.storage.Bytes()
			for i := range data {
				data[i] = 0xFF
			}
			s.boot()
		case "dump":
			data := s.storage.Bytes()
			end := len(data)
			for end > 0 && data[end-1] == 0xFF {
				end--
			}
			fmt.Fprint(w, hex.Dump(data[:end]))
		default:
			return ErrUnknownMeta
		}
	default:
		return ErrUnknownMeta
	}
	return nil
}

func (s *Session) printPorts(w io.Writer) {
	for i := 0; i < s.Bank.Count(); i++ {
		level := "off"
		if s.Host.Ports.State(uint8(i)) {
			level = "on"
		}
		owner, claimed := s.Host.Ports.Owner(uint8(i))
		if !claimed {
			owner = "-"
		}
		fmt.Fprintf(w, "%3d %-10s %-3s %s\n", i, s.Bank.Name(i), level, owner)
	}
}
