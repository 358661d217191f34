package mcu

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"switchbank/config"
	"switchbank/host/sim"
)

func newSimMCU(t *testing.T, board string) (*MCU, *sim.Session) {
	t.Helper()
	cfg, err := config.LoadConfig([]byte("board: " + board + "\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	s, err := sim.NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	s.Drain()

	m := NewMCU()
	m.Timeout = 50 * time.Millisecond
	m.Attach(s)
	return m, s
}

func TestSendCommand(t *testing.T) {
	m, _ := newSimMCU(t, "generic")

	lines, err := m.SendCommand("M7")
	if err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected no lines before ok, got %v", lines)
	}

	_, err = m.SendCommand("M62")
	var status *StatusError
	if !errors.As(err, &status) || status.Code != 28 {
		t.Errorf("Expected error:28 for a missing P word, got %v", err)
	}
}

func TestRetrieveBuildInfo(t *testing.T) {
	m, _ := newSimMCU(t, "pico")

	info, err := m.RetrieveBuildInfo()
	if err != nil {
		t.Fatalf("RetrieveBuildInfo failed: %v", err)
	}
	if info.Version != "1.1f.20261016" || info.Board != "pico" {
		t.Errorf("Expected version and board, got %+v", info)
	}
	if len(info.Options) != 2 || info.Options[0] != "ENUMS" {
		t.Errorf("Expected options ENUMS,RT+, got %v", info.Options)
	}
	if len(info.Plugins) != 1 || info.Plugins[0] != "SwitchBank plugin v0.01" {
		t.Errorf("Expected SwitchBank plugin, got %v", info.Plugins)
	}

	var w bytes.Buffer
	m.PrintBuildInfo(&w)
	if !strings.Contains(w.String(), "Plugin: SwitchBank plugin v0.01") {
		t.Errorf("Expected plugin in summary, got %q", w.String())
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	m, _ := newSimMCU(t, "generic")

	if err := m.SetSetting(459, 3); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	settings, err := m.RetrieveSettings()
	if err != nil {
		t.Fatalf("RetrieveSettings failed: %v", err)
	}
	expected := map[int]uint32{456: 0, 457: 0, 458: 0, 459: 3}
	for id, v := range expected {
		if settings[id] != v {
			t.Errorf("Expected $%d=%d, got %d", id, v, settings[id])
		}
	}

	var status *StatusError
	if err := m.SetSetting(459, 7); !errors.As(err, &status) || status.Code != 33 {
		t.Errorf("Expected error:33 for an out of range value, got %v", err)
	}
}

func TestRetrievePins(t *testing.T) {
	m, _ := newSimMCU(t, "generic")

	pins, err := m.RetrievePins()
	if err != nil {
		t.Fatalf("RetrievePins failed: %v", err)
	}
	if len(pins) != 8 {
		t.Fatalf("Expected 8 pins, got %d", len(pins))
	}
	if pins[0] != (Pin{Name: "gpio2", Port: 0, Owner: "SwitchBank 0 pin"}) {
		t.Errorf("Unexpected first pin %+v", pins[0])
	}
	if pins[7].Owner != "" {
		t.Errorf("Expected port 7 unclaimed, got %q", pins[7].Owner)
	}
}

type silentPort struct{}

func (silentPort) Read([]byte) (int, error)    { return 0, io.EOF }
func (silentPort) Write(b []byte) (int, error) { return len(b), nil }
func (silentPort) Close() error                { return nil }
func (silentPort) Flush() error                { return nil }

func TestTimeout(t *testing.T) {
	m := NewMCU()
	m.Timeout = 10 * time.Millisecond
	m.Attach(silentPort{})

	if _, err := m.SendCommand("$I"); !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got %v", err)
	}
}

func TestNotConnected(t *testing.T) {
	m := NewMCU()
	if _, err := m.SendCommand("$I"); err != ErrNotConnected {
		t.Errorf("Expected ErrNotConnected, got %v", err)
	}

	m.Attach(silentPort{})
	m.Close()
	if m.IsConnected() {
		t.Error("Expected closed MCU to be disconnected")
	}
}
