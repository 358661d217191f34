package core

// PortWrite records one level change on a SimBank port
type PortWrite struct {
	Port int
	On   bool
}

// SimBank is an in-memory aux output bank used by the simulator and tests
type SimBank struct {
	Writes        []PortWrite
	FailConfigure map[int]bool

	levels     []bool
	configured []bool
	explicit   bool
}

// NewSimBank creates a bank with n ports
func NewSimBank(n int, explicit bool) *SimBank {
	return &SimBank{
		FailConfigure: make(map[int]bool),
		levels:        make([]bool, n),
		configured:    make([]bool, n),
		explicit:      explicit,
	}
}

func (b *SimBank) Count() int {
	return len(b.levels)
}

func (b *SimBank) Explicit() bool {
	return b.explicit
}

func (b *SimBank) ConfigureOutput(n int) error {
	if n < 0 || n >= len(b.levels) {
		return ErrPortRange
	}
	if b.FailConfigure[n] {
		return ErrInvalidPin
	}
	b.configured[n] = true
	b.levels[n] = false
	return nil
}

// Set records the write; configuration writes are not recorded
func (b *SimBank) Set(n int, on bool) error {
	if n < 0 || n >= len(b.levels) {
		return ErrPortRange
	}
	if !b.configured[n] {
		return ErrPinNotConfigured
	}
	b.levels[n] = on
	b.Writes = append(b.Writes, PortWrite{Port: n, On: on})
	return nil
}

func (b *SimBank) Get(n int) bool {
	if n < 0 || n >= len(b.levels) {
		return false
	}
	return b.levels[n]
}

func (b *SimBank) Name(n int) string {
	return "sim" + itoa(n)
}

// Configured reports whether port n has been set up as an output
func (b *SimBank) Configured(n int) bool {
	return n >= 0 && n < len(b.configured) && b.configured[n]
}

// ClearWrites forgets recorded writes
func (b *SimBank) ClearWrites() {
	b.Writes = b.Writes[:0]
}
