package core

import (
	"strings"
	"sync"
)

// SystemHandler handles a $ command. args is the text after '=', if any.
type SystemHandler func(h *Host, args string) error

// SystemCommand represents a $ command
type SystemCommand struct {
	Name    string
	Help    string
	Handler SystemHandler
}

// CommandRegistry holds all registered $ commands
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[string]*SystemCommand
	order    []string
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]*SystemCommand),
	}
}

// Register adds a command to the registry. Names are case-insensitive.
// It returns false if the name is already taken.
func (r *CommandRegistry) Register(name, help string, handler SystemHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToUpper(name)
	if _, exists := r.commands[name]; exists {
		return false
	}

	r.commands[name] = &SystemCommand{
		Name:    name,
		Help:    help,
		Handler: handler,
	}
	r.order = append(r.order, name)
	return true
}

// Lookup retrieves a command by name
func (r *CommandRegistry) Lookup(name string) (*SystemCommand, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[strings.ToUpper(name)]
	return cmd, ok
}

// Count returns the number of registered commands
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Help writes the [HLP:] line listing every command
func (r *CommandRegistry) Help(s *Stream) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	line := "[HLP:"
	for i, name := range r.order {
		if i > 0 {
			line += " "
		}
		line += "$" + name
	}
	s.WriteLine(line + "]")
}

// Dispatch runs a $ line (without the leading '$').
// "<number>=<value>" changes a setting; everything else is looked up by
// the text before '='.
func (r *CommandRegistry) Dispatch(h *Host, line string) error {
	name, args, _ := strings.Cut(line, "=")
	name = strings.TrimSpace(name)

	if name == "" {
		r.Help(h.Stream)
		return nil
	}

	if id, ok := ParseUint(name); ok {
		if id > 0xFFFF {
			return ErrSettingUnknown
		}
		return h.Settings.Set(SettingID(id), args)
	}

	cmd, ok := r.Lookup(name)
	if !ok {
		return ErrUnknownCommand
	}
	return cmd.Handler(h, strings.TrimSpace(args))
}
