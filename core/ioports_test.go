package core

import (
	"bytes"
	"errors"
	"testing"

	"tinygo.org/x/drivers/tester"
)

func TestIOPortsAvailable(t *testing.T) {
	ports := NewIOPorts(NewSimBank(6, true))

	if n := ports.Available(PortDigital, PortOutput); n != 6 {
		t.Errorf("Expected 6 available outputs, got %d", n)
	}
	if n := ports.Available(PortDigital, PortInput); n != 0 {
		t.Errorf("Expected no digital inputs, got %d", n)
	}
	if n := ports.Available(PortAnalog, PortOutput); n != 0 {
		t.Errorf("Expected no analog outputs, got %d", n)
	}

	port := uint8(2)
	if !ports.Claim(PortDigital, PortOutput, &port, "test") {
		t.Fatal("Expected claim to succeed")
	}
	if n := ports.Available(PortDigital, PortOutput); n != 5 {
		t.Errorf("Expected 5 available after claim, got %d", n)
	}
	if n := ports.Count(PortDigital, PortOutput); n != 6 {
		t.Errorf("Expected total count to stay 6, got %d", n)
	}
}

func TestIOPortsClaimExplicit(t *testing.T) {
	bank := NewSimBank(4, true)
	ports := NewIOPorts(bank)

	if !ports.CanClaimExplicit() {
		t.Fatal("Expected explicit claiming")
	}

	port := uint8(1)
	if !ports.Claim(PortDigital, PortOutput, &port, "owner A") {
		t.Fatal("Expected claim of port 1 to succeed")
	}
	if port != 1 {
		t.Errorf("Expected port to stay 1, got %d", port)
	}
	if !bank.Configured(1) {
		t.Error("Expected claimed port to be configured as output")
	}

	if ports.Claim(PortDigital, PortOutput, &port, "owner B") {
		t.Error("Expected second claim of port 1 to fail")
	}
	owner, ok := ports.Owner(1)
	if !ok || owner != "owner A" {
		t.Errorf("Expected owner A, got %q (%v)", owner, ok)
	}

	port = 4
	if ports.Claim(PortDigital, PortOutput, &port, "owner C") {
		t.Error("Expected claim past the bank to fail")
	}
	if port != 4 {
		t.Errorf("Expected failed claim to leave port untouched, got %d", port)
	}
}

func TestIOPortsClaimGeneric(t *testing.T) {
	ports := NewIOPorts(NewSimBank(3, false))

	var got []uint8
	for i := 0; i < 3; i++ {
		port := PortUnclaimed
		if !ports.Claim(PortDigital, PortOutput, &port, "generic") {
			t.Fatalf("Claim %d failed", i)
		}
		got = append(got, port)
	}

	if got[0] != 2 || got[1] != 1 || got[2] != 0 {
		t.Errorf("Expected highest free port first [2 1 0], got %v", got)
	}

	port := PortUnclaimed
	if ports.Claim(PortDigital, PortOutput, &port, "generic") {
		t.Error("Expected claim on an exhausted bank to fail")
	}
	if port != PortUnclaimed {
		t.Errorf("Expected port to stay unclaimed, got %d", port)
	}
}

func TestIOPortsClaimConfigureFailure(t *testing.T) {
	bank := NewSimBank(2, true)
	bank.FailConfigure[0] = true
	ports := NewIOPorts(bank)

	port := uint8(0)
	if ports.Claim(PortDigital, PortOutput, &port, "broken") {
		t.Error("Expected claim to fail when the port cannot be configured")
	}
	if n := ports.Available(PortDigital, PortOutput); n != 2 {
		t.Errorf("Expected failed claim to leave 2 available, got %d", n)
	}
}

func TestIOPortsClaimGenericSkipsBrokenPort(t *testing.T) {
	bank := NewSimBank(6, false)
	bank.FailConfigure[5] = true
	ports := NewIOPorts(bank)

	var got []uint8
	for i := 0; i < 4; i++ {
		port := PortUnclaimed
		if !ports.Claim(PortDigital, PortOutput, &port, "generic") {
			t.Fatalf("Claim %d failed", i)
		}
		got = append(got, port)
	}

	want := []uint8{4, 3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected ports %v, got %v", want, got)
			break
		}
	}
	if n := ports.Available(PortDigital, PortOutput); n != 2 {
		t.Errorf("Expected 2 available, got %d", n)
	}

	// Only the broken port is left after port 0 goes
	port := PortUnclaimed
	if !ports.Claim(PortDigital, PortOutput, &port, "generic") || port != 0 {
		t.Errorf("Expected claim on port 0, got %d", port)
	}
	port = PortUnclaimed
	if ports.Claim(PortDigital, PortOutput, &port, "generic") {
		t.Error("Expected claim to fail when every free port is broken")
	}
	if port != PortUnclaimed {
		t.Errorf("Expected port to stay unclaimed, got %d", port)
	}
}

func TestIOPortsRelease(t *testing.T) {
	ports := NewIOPorts(NewSimBank(2, true))

	port := uint8(0)
	ports.Claim(PortDigital, PortOutput, &port, "tmp")

	if !ports.Release(0) {
		t.Error("Expected release of a claimed port to succeed")
	}
	if ports.Release(0) {
		t.Error("Expected release of a free port to fail")
	}
	if !ports.Claim(PortDigital, PortOutput, &port, "again") {
		t.Error("Expected released port to be claimable")
	}
}

func TestIOPortsDigitalOut(t *testing.T) {
	bank := NewSimBank(4, true)
	ports := NewIOPorts(bank)

	// Unclaimed ports are configured on first use
	if err := ports.DigitalOut(3, true); err != nil {
		t.Fatalf("DigitalOut failed: %v", err)
	}
	if !ports.State(3) {
		t.Error("Expected port 3 high")
	}
	if err := ports.DigitalOut(4, true); !errors.Is(err, ErrPortRange) {
		t.Errorf("Expected ErrPortRange, got %v", err)
	}
	if len(bank.Writes) != 1 || bank.Writes[0] != (PortWrite{Port: 3, On: true}) {
		t.Errorf("Expected one write to port 3, got %v", bank.Writes)
	}
}

func TestIOPortsPins(t *testing.T) {
	ports := NewIOPorts(NewSimBank(2, true))
	port := uint8(1)
	ports.Claim(PortDigital, PortOutput, &port, "SwitchBank 1 pin")

	var buf bytes.Buffer
	ports.Pins(NewStream(&buf))

	expected := "[PIN:sim0,Aux out 0]\r\n[PIN:sim1,Aux out 1,SwitchBank 1 pin]\r\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestGPIOBank(t *testing.T) {
	gpio := NewMemGPIO()
	bank := NewGPIOBank(gpio, []GPIOPin{10, 11, 12})
	ports := NewIOPorts(bank)

	if ports.Count(PortDigital, PortOutput) != 3 {
		t.Fatalf("Expected 3 ports, got %d", ports.Count(PortDigital, PortOutput))
	}
	if !ports.CanClaimExplicit() {
		t.Error("Expected GPIO bank to support explicit claims")
	}

	port := uint8(2)
	if !ports.Claim(PortDigital, PortOutput, &port, "test") {
		t.Fatal("Expected claim to succeed")
	}
	if !gpio.Configured(12) {
		t.Error("Expected pin 12 to be configured")
	}

	if err := ports.DigitalOut(2, true); err != nil {
		t.Fatalf("DigitalOut failed: %v", err)
	}
	if level, _ := gpio.GetPin(12); !level {
		t.Error("Expected pin 12 high")
	}
	if bank.Name(0) != "gpio10" {
		t.Errorf("Expected name gpio10, got %s", bank.Name(0))
	}
}

func newExpander(bus *tester.I2CBus, addr uint8) *tester.I2CDevice8 {
	fdev := bus.NewDevice(addr)
	// IODIRA and IODIRB reset to all inputs
	fdev.Registers[0x00] = 0xff
	fdev.Registers[0x01] = 0xff
	return fdev
}

func TestExpanderBank(t *testing.T) {
	bus := tester.NewI2CBus(t)
	fdev := newExpander(bus, 0x20)

	bank, err := NewExpanderBank(bus, 0x20)
	if err != nil {
		t.Fatalf("NewExpanderBank failed: %v", err)
	}
	ports := NewIOPorts(bank)

	if ports.Count(PortDigital, PortOutput) != 16 {
		t.Fatalf("Expected 16 ports, got %d", ports.Count(PortDigital, PortOutput))
	}
	if ports.CanClaimExplicit() {
		t.Error("Expected expander bank to use generic claims")
	}

	port := PortUnclaimed
	if !ports.Claim(PortDigital, PortOutput, &port, "test") {
		t.Fatal("Expected claim to succeed")
	}
	if port != 15 {
		t.Errorf("Expected highest pin 15, got %d", port)
	}
	if fdev.Registers[0x01] != 0x7f {
		t.Errorf("Expected IODIRB 0x7f after configuring GPB7, got 0x%02x", fdev.Registers[0x01])
	}

	if err := ports.DigitalOut(15, true); err != nil {
		t.Fatalf("DigitalOut failed: %v", err)
	}
	if fdev.Registers[0x13] != 0x80 {
		t.Errorf("Expected GPIOB 0x80, got 0x%02x", fdev.Registers[0x13])
	}

	if err := ports.DigitalOut(3, true); err != nil {
		t.Fatalf("DigitalOut failed: %v", err)
	}
	if fdev.Registers[0x00] != 0xf7 || fdev.Registers[0x12] != 0x08 {
		t.Errorf("Expected GPA3 output high, got IODIRA 0x%02x GPIOA 0x%02x", fdev.Registers[0x00], fdev.Registers[0x12])
	}

	if bank.Name(15) != "mcp0x20.GPB7" {
		t.Errorf("Expected mcp0x20.GPB7, got %s", bank.Name(15))
	}
}

func TestExpanderBankMultiple(t *testing.T) {
	bus := tester.NewI2CBus(t)
	newExpander(bus, 0x20)
	second := newExpander(bus, 0x21)

	bank, err := NewExpanderBank(bus, 0x20, 0x21)
	if err != nil {
		t.Fatalf("NewExpanderBank failed: %v", err)
	}
	if bank.Count() != 32 {
		t.Fatalf("Expected 32 ports, got %d", bank.Count())
	}

	if err := bank.ConfigureOutput(16); err != nil {
		t.Fatalf("ConfigureOutput failed: %v", err)
	}
	if err := bank.Set(16, true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if second.Registers[0x12] != 0x01 {
		t.Errorf("Expected second expander GPA0 high, got 0x%02x", second.Registers[0x12])
	}
	if !bank.Get(16) {
		t.Error("Expected cached level high")
	}
}

func TestExpanderBankBadAddress(t *testing.T) {
	bus := tester.NewI2CBus(t)
	if _, err := NewExpanderBank(bus, 0x50); err == nil {
		t.Error("Expected an address outside the MCP23017 range to fail")
	}
}
