// Package esh is an embedded-style interactive line shell front end.
//
// A Session turns a raw byte stream (a UART, a TCP connection, a raw-mode
// tty) into tokenized command invocations. It filters ANSI escape
// sequences, accumulates bytes into a fixed-capacity line buffer with
// backspace editing and overflow detection, and on newline rewrites the
// buffer in place into an argument vector which it hands to an
// owner-supplied dispatcher.
//
// All storage is allocated once in New; the per-byte receive path does
// not allocate. A Session has no internal locking: it is meant to be fed
// by a single producer (an interrupt handler, a polling loop, one
// connection goroutine). Independent Sessions share nothing and may be
// driven concurrently.
package esh

import (
	"bytes"
	"io"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultBufferLen = 200
	DefaultArgcMax   = 10
	DefaultPrompt    = "% "
)

// Config fixes a Session's capacities and prompt. None of these are
// mutable after construction.
type Config struct {
	// BufferLen is the maximum command length in bytes, not counting
	// the terminator.
	BufferLen int
	// ArgcMax is the maximum number of arguments kept per line.
	ArgcMax int
	// Prompt is written through the output sink after every line.
	Prompt string
}

// Dispatcher receives one fully tokenized, non-empty line.
//
// The argv slices alias the Session's line buffer and are valid only for
// the duration of the call; they are clobbered by the next Rx byte.
// Implementations must copy anything they retain.
type Dispatcher interface {
	Dispatch(argv [][]byte)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(argv [][]byte)

func (f DispatcherFunc) Dispatch(argv [][]byte) { f(argv) }

// OverflowHandler is notified when the line buffer or the argument table
// capacity is exceeded. raw is the buffer contents up to the first
// terminator, possibly truncated; it aliases the Session buffer under
// the same lifetime rules as Dispatcher argv. The returned status is
// ignored by the Session.
type OverflowHandler interface {
	Overflow(raw []byte) error
}

// OverflowFunc adapts a function to the OverflowHandler interface.
type OverflowFunc func(raw []byte) error

func (f OverflowFunc) Overflow(raw []byte) error { return f(raw) }

// Session is one interactive connection. The zero value is not usable;
// create Sessions with New.
type Session struct {
	buf    []byte // capacity+1 bytes, terminator always at the active length
	starts []int  // token start offsets recorded by parseArgs
	argv   [][]byte
	cnt    int // [0, capacity+1]; capacity+1 is the overflow sentinel
	esc    escState

	prompt  []byte
	out     io.Writer
	command Dispatcher
	onOver  OverflowHandler // nil means the built-in diagnostic

	scratch [1]byte
}

// New returns a Session with all storage allocated. Zero Config fields
// take the package defaults. The output sink starts as io.Discard and a
// default overflow handler is installed; use the Register methods to
// supply the owner's capabilities.
func New(cfg Config) *Session {
	if cfg.BufferLen <= 0 {
		cfg.BufferLen = DefaultBufferLen
	}
	if cfg.ArgcMax <= 0 {
		cfg.ArgcMax = DefaultArgcMax
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	return &Session{
		buf:    make([]byte, cfg.BufferLen+1),
		starts: make([]int, cfg.ArgcMax),
		argv:   make([][]byte, cfg.ArgcMax),
		prompt: []byte(cfg.Prompt),
		out:    io.Discard,
	}
}

// RegisterOutput sets the sink that receives echoed bytes, erase
// sequences, diagnostics and the prompt. Write errors are ignored; a nil
// writer silences the session.
func (s *Session) RegisterOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.out = w
}

// RegisterDispatcher sets the command callback. With a nil dispatcher,
// completed lines are tokenized and then dropped.
func (s *Session) RegisterDispatcher(d Dispatcher) {
	s.command = d
}

// RegisterOverflow sets the overflow callback. Passing nil restores the
// default handler, which prints a diagnostic through the output sink.
func (s *Session) RegisterOverflow(h OverflowHandler) {
	s.onOver = h
}

// PrintPrompt writes the prompt through the output sink. The Session
// does this itself after every completed line; call it once at startup
// to show the initial prompt.
func (s *Session) PrintPrompt() {
	_, _ = s.out.Write(s.prompt)
}

// capacity is the maximum command length C; the backing array holds one
// extra byte for the terminator.
func (s *Session) capacity() int {
	return len(s.buf) - 1
}

func (s *Session) putc(c byte) {
	s.scratch[0] = c
	_, _ = s.out.Write(s.scratch[:])
}

var overflowDiag = []byte("\nesh: command buffer overflow\n")

func (s *Session) notifyOverflow() {
	raw := s.buf
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if s.onOver != nil {
		_ = s.onOver.Overflow(raw)
		return
	}
	_, _ = s.out.Write(overflowDiag)
}
