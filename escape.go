package esh

// Escape filter states. escBracket is reachable only from escIntro.
type escState uint8

const (
	escNone escState = iota
	escIntro
	escBracket
)

// Rx feeds one received byte into the session. This is the sole input
// entry point; call it once per byte, from one goroutine.
//
// The session expects strict '\n' line endings. Byte sources that
// produce '\r' (most raw-mode terminals) must translate before feeding.
func (s *Session) Rx(c byte) {
	switch s.esc {
	case escBracket:
		// Sequences terminate at an alphabetic final byte; parameter
		// bytes in between are swallowed.
		if isAlpha(c) {
			s.esc = escNone
		}
	case escIntro:
		if c == '[' || c == 'O' {
			s.esc = escBracket
		} else {
			s.esc = escNone
		}
	default:
		switch c {
		case 0x1b:
			s.esc = escIntro
		case 0x00:
			// never stored
		case '\n':
			s.execute()
		default:
			s.accept(c)
		}
	}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
