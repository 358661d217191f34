package gcode

import "strings"

// Parser splits G-code blocks into commands
type Parser struct{}

// NewParser creates a new G-code parser
func NewParser() *Parser {
	return &Parser{}
}

// block collects the commands of one line
type block struct {
	cmds []*Command
	cur  *Command
}

func (b *block) start(t byte, number int) {
	b.cur = &Command{Type: t, Number: number, Parameters: make(map[byte]float64)}
	b.cmds = append(b.cmds, b.cur)
}

// current returns the command parameter words attach to, opening a
// parameter-only command when the block starts with one
func (b *block) current() *Command {
	if b.cur == nil {
		b.start(0, 0)
	}
	return b.cur
}

// ParseLine parses one block. Every G or M word starts a new command and
// parameter words attach to the command before them. Comments in
// parentheses are skipped; a ';' comment ends the block. Whitespace is
// allowed between a letter and its value, as grbl strips it.
func (p *Parser) ParseLine(line string) ([]*Command, error) {
	var b block

	for pos := 0; pos < len(line); {
		c := line[pos]

		switch {
		case c == ';':
			b.current().Comment = line[pos:]
			return b.cmds, nil

		case c == '(':
			end := strings.IndexByte(line[pos:], ')')
			if end < 0 {
				end = len(line) - pos - 1
			}
			b.current().Comment = line[pos : pos+end+1]
			pos += end + 1

		case isLetter(c):
			value, next, ok := readNumber(line, pos+1)
			if !ok {
				return nil, ErrBadNumberFormat
			}
			pos = next

			letter := toUpper(c)
			if letter == 'G' || letter == 'M' {
				number := int(value)
				if float64(number) != value {
					return nil, ErrBadNumberFormat
				}
				b.start(letter, number)
				continue
			}
			b.current().Parameters[letter] = value

		default:
			// Whitespace and unknown characters are ignored
			pos++
		}
	}

	return b.cmds, nil
}

// readNumber reads a signed decimal value starting at pos, skipping
// leading blanks. It returns the value, the position after it, and
// false when no digit was found.
func readNumber(s string, pos int) (float64, int, bool) {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}

	negative := false
	if pos < len(s) && (s[pos] == '-' || s[pos] == '+') {
		negative = s[pos] == '-'
		pos++
	}

	var mantissa uint64
	digits, scale := 0, 0
	point := false
	for ; pos < len(s); pos++ {
		c := s[pos]
		if c == '.' && !point {
			point = true
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		digits++
		// Digits past uint64 precision only move the decimal point
		if mantissa < 1e18 {
			mantissa = mantissa*10 + uint64(c-'0')
			if point {
				scale++
			}
		} else if !point {
			scale--
		}
	}
	if digits == 0 {
		return 0, pos, false
	}

	pow := 1.0
	for i := scale; i > 0; i-- {
		pow *= 10
	}
	for i := scale; i < 0; i++ {
		pow /= 10
	}
	value := float64(mantissa) / pow
	if negative {
		value = -value
	}
	return value, pos, true
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
