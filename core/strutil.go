package core

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var buf [20]byte
	pos := len(buf)
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

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}

// hex8 formats a byte as 0xNN
func hex8(x uint8) string {
	const digits = "0123456789abcdef"
	return "0x" + digits[x>>4:x>>4+1] + digits[x&0xf:x&0xf+1]
}

// ftoa formats a non-negative float with one decimal place
func ftoa(f float32) string {
	if f < 0 {
		return "-" + ftoa(-f)
	}
	tenths := uint32(f*10 + 0.5)
	return utoa(tenths/10) + "." + utoa(tenths%10)
}

// Itoa is the exported form of itoa for plugins
func Itoa(n int) string {
	return itoa(n)
}

// ParseUint parses a decimal string without strconv
func ParseUint(s string) (uint32, bool) {
	if len(s) == 0 || len(s) > 10 {
		return 0, false
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint64(c-'0')
	}
	if v > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(v), true
}
