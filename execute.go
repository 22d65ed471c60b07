package esh

var newline = []byte{'\n'}

// execute completes the current line: tokenize, then hand off to the
// dispatcher, the overflow handler (too many arguments), or nobody
// (blank line). The line state is reset and the prompt re-emitted on
// every outcome.
//
// This runs even when the line sits in the byte-overflow sentinel; the
// truncated buffer is tokenized and may dispatch. See DESIGN.md.
func (s *Session) execute() {
	_, _ = s.out.Write(newline)

	argc := s.parseArgs()
	switch {
	case argc > len(s.argv):
		s.notifyOverflow()
	case argc > 0:
		if s.command != nil {
			s.command.Dispatch(s.argv[:argc])
		}
	}

	s.cnt = 0
	s.buf[0] = 0
	s.PrintPrompt()
}
