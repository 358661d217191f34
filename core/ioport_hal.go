package core

// PortType selects digital or analog aux ports
type PortType uint8

const (
	PortDigital PortType = iota
	PortAnalog
)

// PortDirection selects input or output aux ports
type PortDirection uint8

const (
	PortInput PortDirection = iota
	PortOutput
)

// OutputBank is the abstract aux output hardware that IOPorts manages.
// Ports are numbered 0..Count()-1.
type OutputBank interface {
	// Count returns the number of aux outputs in the bank
	Count() int

	// Explicit reports whether ports can be claimed by index.
	// Banks without it hand out the highest free port on a generic claim.
	Explicit() bool

	// ConfigureOutput prepares port n for output and drives it low
	ConfigureOutput(n int) error

	// Set drives port n high (true) or low (false)
	Set(n int, on bool) error

	// Get returns the last level written to port n
	Get(n int) bool

	// Name returns the hardware name of port n for $pins
	Name(n int) string
}
