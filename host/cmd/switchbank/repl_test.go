package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"switchbank/config"
	"switchbank/host/mcu"
	"switchbank/host/sim"
)

func newSim(t *testing.T) (*mcu.MCU, *sim.Session) {
	t.Helper()
	session, err := sim.NewSession(config.DefaultConfig())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	session.Drain()

	m := mcu.NewMCU()
	m.Timeout = 50 * time.Millisecond
	m.Attach(session)
	return m, session
}

func TestRepl(t *testing.T) {
	m, session := newSim(t)

	in := strings.NewReader("$456=1\n\nM3 S500\nM62\n!ports\n!\"unterminated\nquit\nM5\n")
	var out bytes.Buffer
	if err := repl(in, &out, m, session.Meta, false); err != nil {
		t.Fatalf("repl failed: %v", err)
	}

	expected := []string{
		"ok",
		"ok",
		"error:28",
		"  0 gpio2      on  SwitchBank 0 pin",
		"!\"unterminated: ",
	}
	for _, s := range expected {
		if !strings.Contains(out.String(), s) {
			t.Errorf("Expected %q in output %q", s, out.String())
		}
	}
	if !session.Host.State().SpindleOn {
		t.Error("Expected lines after quit to be ignored")
	}
}

func TestReplWithoutMeta(t *testing.T) {
	m, _ := newSim(t)

	var out bytes.Buffer
	repl(strings.NewReader("!ports\n"), &out, m, nil, false)

	if !strings.Contains(out.String(), errNoMeta.Error()) {
		t.Errorf("Expected meta refusal, got %q", out.String())
	}
}

func TestLoadSimConfig(t *testing.T) {
	defer func() { simOpts.board, simOpts.ports, simOpts.generic = "", 0, false }()

	simOpts.board = "pico"
	cfg, err := loadSimConfig()
	if err != nil {
		t.Fatalf("loadSimConfig failed: %v", err)
	}
	if cfg.Board != "pico" || cfg.AuxPorts != 6 || !cfg.Explicit() {
		t.Errorf("Unexpected config %+v", cfg)
	}

	simOpts.ports = 12
	simOpts.generic = true
	cfg, err = loadSimConfig()
	if err != nil {
		t.Fatalf("loadSimConfig failed: %v", err)
	}
	if cfg.AuxPorts != 12 || cfg.Explicit() {
		t.Errorf("Expected 12 generic ports, got %+v", cfg)
	}

	simOpts.board = "nope"
	if _, err := loadSimConfig(); err == nil {
		t.Error("Expected unknown board to fail")
	}
}
