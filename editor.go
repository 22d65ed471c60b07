package esh

var eraseSeq = []byte("\b \b")

// accept runs one printable or control byte through the line buffer.
// Escape sequences and newlines never reach this point.
func (s *Session) accept(c byte) {
	backspace := c == 0x08 || c == 0x7f
	limit := s.capacity()

	// Once the line has overflowed, the sentinel sticks until newline;
	// every further byte re-raises the overflow instead of being stored.
	// cnt must not keep counting past the end or it could wrap on long
	// garbage input, so it parks at limit+1.
	if s.cnt > limit || (s.cnt == limit && !backspace) {
		s.cnt = limit + 1
		s.buf[limit] = 0
		s.notifyOverflow()
		return
	}

	if backspace {
		if s.cnt > 0 {
			_, _ = s.out.Write(eraseSeq)
			s.cnt--
			s.buf[s.cnt] = 0
		}
		return
	}

	// Echo before store, exactly once per accepted byte.
	s.putc(c)
	s.buf[s.cnt] = c
	s.cnt++
	s.buf[s.cnt] = 0
}
