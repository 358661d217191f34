package core

import (
	"bytes"
	"strings"
	"testing"

	"switchbank/protocol"
)

func newTestHost(t *testing.T, bank OutputBank) (*Host, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	h := NewHost(HostConfig{Output: &out, Bank: bank, Board: "test"})
	return h, &out
}

func TestHostExecuteStatus(t *testing.T) {
	h, out := newTestHost(t, NewSimBank(4, true))

	tests := []struct {
		line string
		code int
	}{
		{"M8", protocol.StatusOK},
		{"m9", protocol.StatusOK},
		{"M62 P1", protocol.StatusOK},
		{"M62", protocol.StatusValueWordMissing},
		{"M64 P9", protocol.StatusInvalidPort},
		{"M3 S", protocol.StatusBadNumberFormat},
		{"123", protocol.StatusExpectedCommandLetter},
		{"$NOPE", protocol.StatusInvalidStatement},
		{"$999=1", protocol.StatusInvalidStatement},
		{"$RST=#", protocol.StatusInvalidStatement},
		{"", protocol.StatusOK},
	}

	for _, tt := range tests {
		out.Reset()
		if code := h.Execute(tt.line); code != tt.code {
			t.Errorf("'%s': expected status %d, got %d", tt.line, tt.code, code)
		}
		expected := protocol.StatusResponse(tt.code) + "\r\n"
		if !strings.HasSuffix(out.String(), expected) {
			t.Errorf("'%s': expected response %q, got %q", tt.line, expected, out.String())
		}
	}
}

func TestHostEventsFire(t *testing.T) {
	h, _ := newTestHost(t, NewSimBank(4, true))

	var spindle []SpindleEvent
	var coolant []CoolantState
	h.Events.SpindleProgrammed.Subscribe(func(ev SpindleEvent) { spindle = append(spindle, ev) })
	h.Events.CoolantSetState.Subscribe(func(cs CoolantState) { coolant = append(coolant, cs) })

	h.Execute("M4 S1500")
	h.Execute("M7")
	h.Execute("M8")

	if len(spindle) != 1 {
		t.Fatalf("Expected 1 spindle event, got %d", len(spindle))
	}
	ev := spindle[0]
	if !ev.State.On || !ev.State.CCW || ev.RPM != 1500 || ev.Mode != SpindleModeRPM || ev.Spindle == nil {
		t.Errorf("Unexpected spindle event %+v", ev)
	}

	if len(coolant) != 2 || coolant[1] != (CoolantState{Mist: true, Flood: true}) {
		t.Errorf("Expected coolant states to accumulate, got %+v", coolant)
	}
}

func TestHostMachinePinsRunFirst(t *testing.T) {
	gpio := NewMemGPIO()
	pins := MachinePins{SpindleEnable: 20, SpindleDir: 21, Flood: 22, Mist: 23}
	h := NewHost(HostConfig{Bank: NewSimBank(4, true), GPIO: gpio, Pins: pins})

	var floodAtObserver bool
	h.Events.CoolantSetState.Subscribe(func(CoolantState) {
		floodAtObserver, _ = gpio.GetPin(22)
	})

	h.Execute("M8")
	if !floodAtObserver {
		t.Error("Expected flood pin to be driven before later observers run")
	}

	h.Execute("M4")
	if on, _ := gpio.GetPin(20); !on {
		t.Error("Expected spindle enable high")
	}
	if ccw, _ := gpio.GetPin(21); !ccw {
		t.Error("Expected spindle direction high for M4")
	}
}

func TestHostReset(t *testing.T) {
	h, _ := newTestHost(t, NewSimBank(4, true))

	var order []string
	h.Events.DriverReset.Subscribe(func(struct{}) { order = append(order, "reset") })
	h.Events.SpindleProgrammed.Subscribe(func(ev SpindleEvent) {
		if !ev.State.On {
			order = append(order, "spindle off")
		}
	})
	h.Events.CoolantSetState.Subscribe(func(cs CoolantState) {
		if !cs.Mist && !cs.Flood {
			order = append(order, "coolant off")
		}
	})

	h.Execute("M3 M8")
	h.Reset()

	expected := []string{"reset", "spindle off", "coolant off"}
	if strings.Join(order, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected %v, got %v", expected, order)
	}
	if s := h.State(); s.SpindleOn || s.Flood {
		t.Errorf("Expected spindle and coolant off, got %+v", s)
	}
}

func TestHostBuildInfo(t *testing.T) {
	h, out := newTestHost(t, NewSimBank(4, true))

	h.Events.ReportOptions.Subscribe(func(newopt bool) {
		if newopt {
			h.Stream.Write(",TEST")
		} else {
			h.Stream.WriteLine("[PLUGIN:Test v1]")
		}
	})

	h.Execute("$I")

	expected := "[VER:" + protocol.Version + ":test]\r\n" +
		"[NEWOPT:ENUMS,RT+,TEST]\r\n" +
		"[PLUGIN:Test v1]\r\n" +
		"ok\r\n"
	if out.String() != expected {
		t.Errorf("Expected %q, got %q", expected, out.String())
	}
}

func TestHostBootPlugins(t *testing.T) {
	h, out := newTestHost(t, NewSimBank(4, true))

	var order []string
	h.RegisterPlugin("first", func(h *Host) error {
		order = append(order, "first")
		return ErrInsufficientPorts
	})
	h.RegisterPlugin("second", func(h *Host) error {
		order = append(order, "second")
		h.RT.Enqueue(func() { h.ReportMessage("late", MessageWarning) })
		return nil
	})

	h.Boot()
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("Expected plugins to initialize in order despite failures, got %v", order)
	}
	if !strings.Contains(out.String(), "GrblHAL 1.1f") {
		t.Errorf("Expected greeting, got %q", out.String())
	}
	if strings.Contains(out.String(), "late") {
		t.Error("Expected deferred message to wait for ExecuteRealtime")
	}

	h.ExecuteRealtime()
	if !strings.Contains(out.String(), "[MSG:Warning: late]") {
		t.Errorf("Expected deferred warning after ExecuteRealtime, got %q", out.String())
	}
}

func TestHostAuxOut(t *testing.T) {
	bank := NewSimBank(4, true)
	h, _ := newTestHost(t, bank)

	h.Execute("M64 P2")
	h.Execute("M65 P2")

	if len(bank.Writes) != 2 || bank.Writes[0] != (PortWrite{Port: 2, On: true}) || bank.Writes[1] != (PortWrite{Port: 2, On: false}) {
		t.Errorf("Expected on/off writes to port 2, got %v", bank.Writes)
	}
}

func TestHostPinsCommand(t *testing.T) {
	h, out := newTestHost(t, NewSimBank(2, true))

	h.Execute("$PINS")
	expected := "[PIN:sim0,Aux out 0]\r\n[PIN:sim1,Aux out 1]\r\nok\r\n"
	if out.String() != expected {
		t.Errorf("Expected %q, got %q", expected, out.String())
	}
}
