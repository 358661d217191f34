//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"switchbank/config"
	"switchbank/core"
	"switchbank/plugins/switchbank"
	"switchbank/protocol"
)

// gpioCount is the number of user GPIOs on the RP2040
const gpioCount = 30

// ctrlX is the grbl realtime soft reset character
const ctrlX = 0x18

// boardName selects the board definition, override with
// -ldflags "-X main.boardName=pico-expander"
var boardName = "pico"

var (
	inputBuffer *protocol.FifoBuffer
	host        *core.Host

	// Debug counters
	linesExecuted uint32
	msgerrors     uint32
)

func main() {
	// Disable the watchdog left running by a previous reset
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	InitDebugUART()

	board, err := config.FindBoard(boardName)
	if err != nil {
		board, _ = config.FindBoard("pico")
	}

	core.SetGPIODriver(NewRPGPIODriver())

	i2c, err := initI2C(board.I2C)
	if err != nil {
		core.DebugPrintln("[BOOT] i2c: " + err.Error())
	}
	bank, storage := setupBoard(board, i2c)

	host = core.NewHost(core.HostConfig{
		Output:  usbWriter{},
		Bank:    bank,
		Storage: storage,
		GPIO:    core.MustGPIO(),
		Pins:    board.MachinePins(),
		Board:   board.Name,
	})
	host.RegisterPlugin("switchbank", func(h *core.Host) error {
		_, err := switchbank.Init(h)
		return err
	})
	host.Boot()
	host.ExecuteRealtime()

	inputBuffer = protocol.NewFifoBuffer(protocol.LineMax)
	go usbReaderLoop()

	var line protocol.LineBuffer
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgerrors++
					inputBuffer.Reset()
					line.Reset()
				}
			}()

			for {
				b, ok := inputBuffer.ReadByte()
				if !ok {
					break
				}
				l, ok := line.Feed(b)
				if !ok {
					continue
				}
				if line.Overflowed() {
					host.Stream.WriteLine(protocol.StatusResponse(protocol.StatusOverflow))
					continue
				}
				host.Execute(string(l))
				linesExecuted++
			}

			host.ExecuteRealtime()
		}()

		// Yield to the reader goroutine
		time.Sleep(10 * time.Microsecond)
	}
}

// setupBoard picks the aux output bank and the settings storage for board.
// A nil storage selects RAM.
func setupBoard(board config.Board, i2c *machine.I2C) (core.OutputBank, core.Storage) {
	var storage core.Storage
	if board.EEPROM != nil && i2c != nil {
		storage = core.NewEEPROMStorage(i2c, core.EEPROMConfig{
			Address:  board.EEPROM.Address,
			Size:     board.EEPROM.Size,
			PageSize: board.EEPROM.PageSize,
		})
	}

	var bank core.OutputBank = core.NewGPIOBank(core.MustGPIO(), board.GPIOPins())
	if len(board.Expanders) > 0 && i2c != nil {
		expanders, err := core.NewExpanderBank(i2c, board.Expanders...)
		if err != nil {
			core.DebugPrintln("[BOOT] expander: " + err.Error())
		} else {
			bank = expanders
		}
	}
	return bank, storage
}

// usbReaderLoop moves USB input into the line FIFO. Ctrl-X is handled
// here and queued as a realtime reset.
func usbReaderLoop() {
	// Recover from panics to prevent a firmware crash
	defer func() {
		if r := recover(); r != nil {
			msgerrors++
			time.Sleep(100 * time.Millisecond)
			go usbReaderLoop()
		}
	}()

	for {
		if USBAvailable() > 0 {
			data, err := USBRead()
			if err != nil {
				msgerrors++
				time.Sleep(1 * time.Millisecond)
				continue
			}

			if data == ctrlX {
				host.RT.Enqueue(host.Reset)
				continue
			}

			if inputBuffer.Write([]byte{data}) == 0 {
				msgerrors++
				time.Sleep(10 * time.Millisecond)
			}
		}
		// Yield to avoid a busy loop
		time.Sleep(100 * time.Microsecond)
	}
}
