package core

// PortUnclaimed is returned in a claim slot that holds no port
const PortUnclaimed uint8 = 0xFF

// maxPorts keeps port numbers clear of the PortUnclaimed sentinel
const maxPorts = 255

type portClaim struct {
	claimed bool
	owner   string
}

// IOPorts tracks ownership of the aux outputs of a bank
type IOPorts struct {
	bank       OutputBank
	count      int
	claims     []portClaim
	configured []bool
}

// NewIOPorts creates the claim registry for bank
func NewIOPorts(bank OutputBank) *IOPorts {
	n := bank.Count()
	if n > maxPorts {
		n = maxPorts
	}
	return &IOPorts{
		bank:       bank,
		count:      n,
		claims:     make([]portClaim, n),
		configured: make([]bool, n),
	}
}

// Count returns the number of ports of the given type and direction
func (p *IOPorts) Count(t PortType, d PortDirection) int {
	if t != PortDigital || d != PortOutput {
		return 0
	}
	return p.count
}

// Available returns the number of unclaimed ports of the given type and direction
func (p *IOPorts) Available(t PortType, d PortDirection) int {
	if t != PortDigital || d != PortOutput {
		return 0
	}
	n := 0
	for i := range p.claims {
		if !p.claims[i].claimed {
			n++
		}
	}
	return n
}

// CanClaimExplicit reports whether Claim honours the requested port number
func (p *IOPorts) CanClaimExplicit() bool {
	return p.bank.Explicit()
}

// Claim reserves a port for owner and configures it as an output.
// With explicit claiming *port selects the port; otherwise the highest
// free port that can be configured is chosen and stored in *port.
// It returns false on failure and leaves *port untouched.
func (p *IOPorts) Claim(t PortType, d PortDirection, port *uint8, owner string) bool {
	if t != PortDigital || d != PortOutput || port == nil {
		return false
	}

	if p.bank.Explicit() {
		n := int(*port)
		if n >= p.count || p.claims[n].claimed {
			DebugPrintln("[IOPORT] claim failed for " + owner)
			return false
		}
		return p.take(n, owner)
	}

	// Generic: highest free port that accepts output configuration
	for n := p.count - 1; n >= 0; n-- {
		if !p.claims[n].claimed && p.take(n, owner) {
			*port = uint8(n)
			return true
		}
	}
	DebugPrintln("[IOPORT] claim failed for " + owner)
	return false
}

func (p *IOPorts) take(n int, owner string) bool {
	if err := p.configure(n); err != nil {
		DebugPrintln("[IOPORT] port " + itoa(n) + " configure failed: " + err.Error())
		return false
	}
	p.claims[n] = portClaim{claimed: true, owner: owner}
	return true
}

// Release returns a claimed port to the free pool
func (p *IOPorts) Release(port uint8) bool {
	if int(port) >= p.count || !p.claims[port].claimed {
		return false
	}
	p.claims[port] = portClaim{}
	return true
}

// Owner returns the description a port was claimed with
func (p *IOPorts) Owner(port uint8) (string, bool) {
	if int(port) >= p.count || !p.claims[port].claimed {
		return "", false
	}
	return p.claims[port].owner, true
}

// DigitalOut drives an aux output. Unclaimed ports are configured on first use.
func (p *IOPorts) DigitalOut(port uint8, on bool) error {
	if int(port) >= p.count {
		return ErrPortRange
	}
	if !p.configured[port] {
		if err := p.configure(int(port)); err != nil {
			return err
		}
	}
	return p.bank.Set(int(port), on)
}

// State returns the last level written to port
func (p *IOPorts) State(port uint8) bool {
	if int(port) >= p.count {
		return false
	}
	return p.bank.Get(int(port))
}

// Pins writes one [PIN:...] line per aux output
func (p *IOPorts) Pins(s *Stream) {
	for i := 0; i < p.count; i++ {
		line := "[PIN:" + p.bank.Name(i) + ",Aux out " + itoa(i)
		if p.claims[i].claimed {
			line += "," + p.claims[i].owner
		}
		s.WriteLine(line + "]")
	}
}

func (p *IOPorts) configure(n int) error {
	if err := p.bank.ConfigureOutput(n); err != nil {
		return err
	}
	p.configured[n] = true
	return nil
}
