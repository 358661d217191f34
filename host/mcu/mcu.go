// Package mcu talks to a controller over its line protocol
package mcu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"switchbank/host/serial"
)

var (
	ErrNotConnected = errors.New("not connected to controller")
	ErrTimeout      = errors.New("timed out waiting for response")
)

// StatusError is an error:<code> response
type StatusError struct {
	Command string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: error:%d", e.Command, e.Code)
}

// MCU represents a connection to a controller
type MCU struct {
	port   serial.Port
	reader *bufio.Reader

	// Timeout bounds the wait for a command's ok/error line
	Timeout time.Duration

	info      *BuildInfo
	connected bool
}

// BuildInfo is the parsed $I report
type BuildInfo struct {
	Version string
	Board   string
	Options []string
	Plugins []string
}

// Pin is one parsed [PIN:] line
type Pin struct {
	Name  string
	Port  int
	Owner string
}

// NewMCU creates a new MCU instance (not yet connected)
func NewMCU() *MCU {
	return &MCU{Timeout: 2 * time.Second}
}

// Connect connects to a controller via serial port
func (m *MCU) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig connects with a custom serial config
func (m *MCU) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	m.Attach(port)

	// Give the controller time to print its greeting after a reset
	time.Sleep(100 * time.Millisecond)
	return nil
}

// Attach uses an already open port
func (m *MCU) Attach(port serial.Port) {
	m.port = port
	m.reader = bufio.NewReader(port)
	m.connected = true
}

// Close closes the connection
func (m *MCU) Close() error {
	m.connected = false
	if m.port != nil {
		return m.port.Close()
	}
	return nil
}

// IsConnected returns whether the MCU is connected
func (m *MCU) IsConnected() bool {
	return m.connected
}

// SendCommand sends one line and returns the lines printed before its
// ok. An error:<code> response is returned as *StatusError.
func (m *MCU) SendCommand(line string) ([]string, error) {
	if !m.connected {
		return nil, ErrNotConnected
	}

	if err := m.port.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush port: %w", err)
	}
	if _, err := io.WriteString(m.port, line+"\n"); err != nil {
		return nil, fmt.Errorf("failed to send %q: %w", line, err)
	}

	var lines []string
	deadline := time.Now().Add(m.Timeout)
	for {
		resp, err := m.readLine(deadline)
		if err != nil {
			return lines, fmt.Errorf("%q: %w", line, err)
		}

		switch {
		case resp == "":
			continue
		case resp == "ok":
			return lines, nil
		case strings.HasPrefix(resp, "error:"):
			code, _ := strconv.Atoi(strings.TrimPrefix(resp, "error:"))
			return lines, &StatusError{Command: line, Code: code}
		default:
			lines = append(lines, resp)
		}
	}
}

// readLine reads one CR/LF terminated line, retrying read timeouts
// until deadline
func (m *MCU) readLine(deadline time.Time) (string, error) {
	var partial string
	for {
		s, err := m.reader.ReadString('\n')
		partial += s
		if err == nil {
			return strings.TrimRight(partial, "\r\n"), nil
		}
		if err != io.EOF {
			return "", err
		}
		if time.Now().After(deadline) {
			return "", ErrTimeout
		}
		time.Sleep(time.Millisecond)
	}
}

// RetrieveBuildInfo sends $I and parses the version, option and plugin lines
func (m *MCU) RetrieveBuildInfo() (*BuildInfo, error) {
	lines, err := m.SendCommand("$I")
	if err != nil {
		return nil, err
	}

	info := &BuildInfo{}
	for _, line := range lines {
		body, ok := bracket(line)
		if !ok {
			continue
		}
		tag, value, _ := strings.Cut(body, ":")
		switch tag {
		case "VER":
			info.Version, info.Board, _ = strings.Cut(value, ":")
		case "NEWOPT":
			info.Options = strings.Split(value, ",")
		case "PLUGIN":
			info.Plugins = append(info.Plugins, value)
		}
	}

	m.info = info
	return info, nil
}

// GetBuildInfo returns the last retrieved build info
func (m *MCU) GetBuildInfo() *BuildInfo {
	return m.info
}

// RetrieveSettings sends $$ and returns the setting values by number
func (m *MCU) RetrieveSettings() (map[int]uint32, error) {
	lines, err := m.SendCommand("$$")
	if err != nil {
		return nil, err
	}

	settings := make(map[int]uint32)
	for _, line := range lines {
		id, value, ok := strings.Cut(strings.TrimPrefix(line, "$"), "=")
		if !ok || !strings.HasPrefix(line, "$") {
			continue
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			continue
		}
		settings[n] = uint32(v)
	}
	return settings, nil
}

// SetSetting writes $<id>=<value>
func (m *MCU) SetSetting(id int, value uint32) error {
	_, err := m.SendCommand(fmt.Sprintf("$%d=%d", id, value))
	return err
}

// RetrievePins sends $PINS and parses the aux port list
func (m *MCU) RetrievePins() ([]Pin, error) {
	lines, err := m.SendCommand("$PINS")
	if err != nil {
		return nil, err
	}

	var pins []Pin
	for _, line := range lines {
		body, ok := bracket(line)
		if !ok || !strings.HasPrefix(body, "PIN:") {
			continue
		}
		fields := strings.SplitN(strings.TrimPrefix(body, "PIN:"), ",", 3)
		if len(fields) < 2 {
			continue
		}
		port, err := strconv.Atoi(strings.TrimPrefix(fields[1], "Aux out "))
		if err != nil {
			continue
		}
		pin := Pin{Name: fields[0], Port: port}
		if len(fields) == 3 {
			pin.Owner = fields[2]
		}
		pins = append(pins, pin)
	}
	return pins, nil
}

// PrintBuildInfo prints a summary of the build info
func (m *MCU) PrintBuildInfo(w io.Writer) {
	if m.info == nil {
		fmt.Fprintln(w, "No build info loaded")
		return
	}

	fmt.Fprintf(w, "Version: %s\n", m.info.Version)
	fmt.Fprintf(w, "Board: %s\n", m.info.Board)
	fmt.Fprintf(w, "Options: %s\n", strings.Join(m.info.Options, ","))
	for _, p := range m.info.Plugins {
		fmt.Fprintf(w, "Plugin: %s\n", p)
	}
}

func bracket(line string) (string, bool) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return "", false
	}
	return line[1 : len(line)-1], true
}
