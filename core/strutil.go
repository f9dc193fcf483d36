package core

// itoa converts an integer to a string without using fmt
// Debug lines are built on the device, where fmt is too heavy
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

// charString renders a command byte for debug output: printable ASCII is
// quoted, anything else is shown as a hex escape
func charString(c byte) string {
	if c >= 0x20 && c < 0x7f {
		return "'" + string(rune(c)) + "'"
	}
	const hexDigits = "0123456789abcdef"
	return "0x" + string([]byte{hexDigits[c>>4], hexDigits[c&0xf]})
}
