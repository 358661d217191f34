//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// InitUSB configures machine.Serial, which is USB CDC on the RP2040
func InitUSB() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// USBAvailable returns the number of bytes available to read from USB
func USBAvailable() int {
	return machine.Serial.Buffered()
}

// USBRead reads a single byte from USB
func USBRead() (byte, error) {
	return machine.Serial.ReadByte()
}

// usbWriter is the response stream of the host
type usbWriter struct{}

// Write retries short writes a few times, then drops the rest so a
// detached host never stalls the main loop
func (usbWriter) Write(data []byte) (int, error) {
	written := 0
	for failures := 0; written < len(data) && failures < 10; {
		n, err := machine.Serial.Write(data[written:])
		if err != nil || n == 0 {
			failures++
			continue
		}
		written += n
	}
	return len(data), nil
}
