// Package protocol implements the line-oriented grbl command protocol
package protocol

// Version is the firmware version reported by $I
const Version = "1.1f.20261016"

// Line protocol constants
const (
	EOL     = "\r\n"
	LineMax = 256 // Longest accepted input line, longer lines are discarded
)

// Status codes returned as "error:<code>"
const (
	StatusOK                    = 0
	StatusExpectedCommandLetter = 1
	StatusBadNumberFormat       = 2
	StatusInvalidStatement      = 3
	StatusSettingReadFail       = 7
	StatusOverflow              = 11
	StatusUnsupportedCommand    = 20
	StatusValueWordMissing      = 28
	StatusSettingOutOfRange     = 33
	StatusInvalidPort           = 39
)

// StatusResponse formats the response line for a status code
func StatusResponse(code int) string {
	if code == StatusOK {
		return "ok"
	}
	return "error:" + itoa(code)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [12]byte
	pos := len(buf)
	negative := n < 0
	if negative {
		n = -n
	}
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if negative {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
