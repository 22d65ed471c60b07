package esh

// parseArgs rewrites buf[0..cnt) in place into NUL-separated tokens,
// records up to ArgcMax token views, and returns the logical token
// count. The count keeps incrementing past the table capacity so the
// caller can detect argument overflow.
//
// Quoting follows sh-like rules with ' and ": a quote character opens a
// run in which whitespace is literal and only the matching quote closes
// it. Quote characters themselves are never copied, so adjacent quoted
// and unquoted runs concatenate into one token:
//
//	before: git   config user.name "My Name"
//	after:  git###config#user.name#My Name#   (# is NUL)
//	        ^     ^      ^         ^
//
// An unterminated quote extends to the end of the line. Rewriting only
// ever contracts the data, so dest never overtakes the read index.
func (s *Session) parseArgs() int {
	n := s.cnt
	if n > len(s.buf) {
		n = len(s.buf)
	}

	argc := 0
	dest := 0
	boundary := true
	var quote byte

	for i := 0; i < n; i++ {
		c := s.buf[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				s.buf[dest] = c
				dest++
			}
			boundary = false
		case c == ' ' || c == '\t':
			s.buf[dest] = 0
			dest++
			boundary = true
		default:
			if boundary {
				if argc < len(s.starts) {
					s.starts[argc] = dest
				}
				argc++
			}
			if c == '\'' || c == '"' {
				quote = c
			} else {
				s.buf[dest] = c
				dest++
			}
			boundary = false
		}
	}

	if dest < len(s.buf) {
		s.buf[dest] = 0
	}
	s.buf[s.capacity()] = 0

	stored := argc
	if stored > len(s.starts) {
		stored = len(s.starts)
	}
	for k := 0; k < stored; k++ {
		start := s.starts[k]
		end := start
		for end < len(s.buf) && s.buf[end] != 0 {
			end++
		}
		s.argv[k] = s.buf[start:end]
	}
	return argc
}
