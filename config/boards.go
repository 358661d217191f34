// Package config holds board definitions and machine configuration
package config

import (
	_ "embed"
	"errors"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"switchbank/core"
)

//go:embed boards.yaml
var rawBoards []byte

var boards Boards

var (
	ErrBoardNotFound   = errors.New("board not found")
	ErrEmptyBank       = errors.New("board has no aux outputs")
	ErrDuplicatePin    = errors.New("pin assigned twice")
	ErrExpanderAddress = errors.New("expander address invalid or repeated")
	ErrEEPROMConfig    = errors.New("invalid eeprom configuration")
	ErrMissingI2C      = errors.New("i2c peripherals need i2c pins")
)

// I2C selects the bus pins shared by the expanders and the EEPROM
type I2C struct {
	SDA       uint32 `yaml:"sda"`
	SCL       uint32 `yaml:"scl"`
	Frequency uint32 `yaml:"frequency"`
}

// EEPROM describes an AT24Cxx used for settings storage
type EEPROM struct {
	Address  uint16 `yaml:"address"`
	Size     int    `yaml:"size"`
	PageSize uint16 `yaml:"page_size"`
}

// Board describes the aux output hardware of one controller board
type Board struct {
	Name          string   `yaml:"name"`
	Aliases       []string `yaml:"aliases"`
	AuxPins       []uint32 `yaml:"aux_pins"`  // MCU GPIOs, aux port n is AuxPins[n]
	Expanders     []uint8  `yaml:"expanders"` // MCP23017 addresses
	SpindleEnable *uint32  `yaml:"spindle_enable"`
	SpindleDir    *uint32  `yaml:"spindle_dir"`
	Flood         *uint32  `yaml:"flood"`
	Mist          *uint32  `yaml:"mist"`
	I2C           *I2C     `yaml:"i2c"`
	EEPROM        *EEPROM  `yaml:"eeprom"`
}

// Boards is the list of known boards
type Boards []Board

// All returns every embedded board definition
func All() Boards {
	return boards
}

// Find looks a board up by name or alias, ignoring case
func (b Boards) Find(name string) (Board, error) {
	name = strings.ToLower(name)
	for _, board := range b {
		if board.Name == name || slices.Contains(board.Aliases, name) {
			return board, nil
		}
	}
	return Board{}, ErrBoardNotFound
}

// Names returns the sorted board names
func (b Boards) Names() []string {
	names := make([]string, 0, len(b))
	for _, board := range b {
		names = append(names, board.Name)
	}
	slices.Sort(names)
	return names
}

// FindBoard looks a board up in the embedded definitions
func FindBoard(name string) (Board, error) {
	return boards.Find(name)
}

// PortCount is the number of aux outputs the board exposes
func (b Board) PortCount() int {
	return len(b.AuxPins) + len(b.Expanders)*16
}

// Explicit reports whether aux ports can be claimed by number. Expander
// pins are assigned by the core.
func (b Board) Explicit() bool {
	return len(b.Expanders) == 0
}

// MachinePins returns the dedicated spindle and coolant pins
func (b Board) MachinePins() core.MachinePins {
	pins := core.NoMachinePins
	if b.SpindleEnable != nil {
		pins.SpindleEnable = core.GPIOPin(*b.SpindleEnable)
	}
	if b.SpindleDir != nil {
		pins.SpindleDir = core.GPIOPin(*b.SpindleDir)
	}
	if b.Flood != nil {
		pins.Flood = core.GPIOPin(*b.Flood)
	}
	if b.Mist != nil {
		pins.Mist = core.GPIOPin(*b.Mist)
	}
	return pins
}

// GPIOPins converts the aux pin list for core.NewGPIOBank
func (b Board) GPIOPins() []core.GPIOPin {
	pins := make([]core.GPIOPin, len(b.AuxPins))
	for i, p := range b.AuxPins {
		pins[i] = core.GPIOPin(p)
	}
	return pins
}

// Validate checks the board for unusable definitions
func (b Board) Validate() error {
	if b.PortCount() == 0 {
		return ErrEmptyBank
	}

	seen := make(map[uint32]bool)
	pins := slices.Clone(b.AuxPins)
	for _, p := range []*uint32{b.SpindleEnable, b.SpindleDir, b.Flood, b.Mist} {
		if p != nil {
			pins = append(pins, *p)
		}
	}
	if b.I2C != nil {
		pins = append(pins, b.I2C.SDA, b.I2C.SCL)
	}
	for _, p := range pins {
		if seen[p] {
			return ErrDuplicatePin
		}
		seen[p] = true
	}

	for i, addr := range b.Expanders {
		if addr&0x78 != 0x20 || slices.Index(b.Expanders, addr) != i {
			return ErrExpanderAddress
		}
	}

	if b.EEPROM != nil && (b.EEPROM.Size <= 0 || b.EEPROM.Size > core.MaxEEPROMSize || b.EEPROM.PageSize == 0) {
		return ErrEEPROMConfig
	}
	if (len(b.Expanders) > 0 || b.EEPROM != nil) && b.I2C == nil {
		return ErrMissingI2C
	}
	return nil
}

func init() {
	var b struct {
		Elements Boards `yaml:"boards"`
	}
	if err := yaml.Unmarshal(rawBoards, &b); err != nil {
		panic(err)
	}
	boards = b.Elements
}
