package core

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/at24cx"
)

// RAMStorage keeps NVS contents in memory. It starts erased (all 0xFF).
type RAMStorage struct {
	data []byte
}

// NewRAMStorage creates an erased storage of size bytes
func NewRAMStorage(size int) *RAMStorage {
	data := make([]byte, size)
	for i := range data {
		data[i] = 0xFF
	}
	return &RAMStorage{data: data}
}

func (r *RAMStorage) Size() int {
	return len(r.data)
}

func (r *RAMStorage) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(r.data)) {
		return 0, ErrNVSRange
	}
	return copy(p, r.data[off:]), nil
}

func (r *RAMStorage) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(r.data)) {
		return 0, ErrNVSRange
	}
	return copy(r.data[off:], p), nil
}

// Bytes exposes the raw contents
func (r *RAMStorage) Bytes() []byte {
	return r.data
}

// EEPROMStorage keeps NVS contents in an AT24Cxx I2C EEPROM
type EEPROMStorage struct {
	dev  at24cx.Device
	size int
}

// MaxEEPROMSize is the largest part at24cx can address; its end address is a uint16
const MaxEEPROMSize = 0xFFFF

// EEPROMConfig describes the EEPROM part on the board
type EEPROMConfig struct {
	Address  uint16 // I2C address, 0 selects the at24cx default
	Size     int    // bytes
	PageSize uint16 // bytes per page write
}

// NewEEPROMStorage wraps an AT24Cxx on bus
func NewEEPROMStorage(bus drivers.I2C, cfg EEPROMConfig) *EEPROMStorage {
	dev := at24cx.New(bus)
	if cfg.Address != 0 {
		dev.Address = cfg.Address
	}
	if cfg.Size <= 0 {
		cfg.Size = 4096
	}
	if cfg.Size > MaxEEPROMSize {
		cfg.Size = MaxEEPROMSize
	}
	dev.Configure(at24cx.Config{
		PageSize:      cfg.PageSize,
		EndRAMAddress: uint16(cfg.Size),
	})
	return &EEPROMStorage{dev: dev, size: cfg.Size}
}

func (e *EEPROMStorage) Size() int {
	return e.size
}

func (e *EEPROMStorage) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(e.size) {
		return 0, ErrNVSRange
	}
	return e.dev.ReadAt(p, off)
}

func (e *EEPROMStorage) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(e.size) {
		return 0, ErrNVSRange
	}
	return e.dev.WriteAt(p, off)
}
