package esh

import (
	"bytes"
	"strings"
	"testing"
)

// recorder captures everything a session hands to its owner.
type recorder struct {
	out       bytes.Buffer
	lines     [][]string
	overflows []string
}

func newRecordedSession(cfg Config) (*Session, *recorder) {
	rec := &recorder{}
	s := New(cfg)
	s.RegisterOutput(&rec.out)
	s.RegisterDispatcher(DispatcherFunc(func(argv [][]byte) {
		line := make([]string, len(argv))
		for i, a := range argv {
			line[i] = string(a)
		}
		rec.lines = append(rec.lines, line)
	}))
	s.RegisterOverflow(OverflowFunc(func(raw []byte) error {
		rec.overflows = append(rec.overflows, string(raw))
		return nil
	}))
	return s, rec
}

func TestSession_DispatchesTokenizedLine(t *testing.T) {
	s, rec := newRecordedSession(Config{Prompt: "% "})

	feed(s, "git config user.name \"My Name\"\n")

	if len(rec.lines) != 1 {
		t.Fatalf("dispatched %d lines; want 1", len(rec.lines))
	}
	want := []string{"git", "config", "user.name", "My Name"}
	got := rec.lines[0]
	if len(got) != len(want) {
		t.Fatalf("argv=%q; want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("argv[%d]=%q; want %q", i, got[i], want[i])
		}
	}
	if len(rec.overflows) != 0 {
		t.Fatalf("overflow fired %d times; want 0", len(rec.overflows))
	}
	if s.cnt != 0 {
		t.Fatalf("cnt=%d after dispatch; want 0", s.cnt)
	}
	if !strings.HasSuffix(rec.out.String(), "\n% ") {
		t.Fatalf("output %q does not end with newline and prompt", rec.out.String())
	}
}

func TestSession_EchoesAcceptedBytes(t *testing.T) {
	s, rec := newRecordedSession(Config{Prompt: "> "})

	feed(s, "hi")
	if got := rec.out.String(); got != "hi" {
		t.Fatalf("echo=%q; want \"hi\"", got)
	}
	if s.cnt != 2 {
		t.Fatalf("cnt=%d; want 2", s.cnt)
	}
}

func TestSession_Backspace(t *testing.T) {
	s, rec := newRecordedSession(Config{})

	feed(s, "ab")
	s.Rx(0x7f)

	if s.cnt != 1 {
		t.Fatalf("cnt=%d; want 1", s.cnt)
	}
	if string(s.buf[:s.cnt]) != "a" {
		t.Fatalf("buffer=%q; want \"a\"", s.buf[:s.cnt])
	}
	if got := rec.out.String(); got != "ab\b \b" {
		t.Fatalf("output=%q; want %q", got, "ab\b \b")
	}
}

func TestSession_BackspaceOnEmptyLineIsNop(t *testing.T) {
	s, rec := newRecordedSession(Config{})

	s.Rx(0x08)
	s.Rx(0x7f)

	if s.cnt != 0 || rec.out.Len() != 0 {
		t.Fatalf("cnt=%d out=%q; want untouched session", s.cnt, rec.out.String())
	}
}

func TestSession_BlankLine(t *testing.T) {
	tcs := []struct {
		name string
		in   string
	}{
		{name: "empty", in: "\n"},
		{name: "spaces", in: "   \n"},
		{name: "tabs and spaces", in: " \t \n"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			s, rec := newRecordedSession(Config{Prompt: "% "})

			feed(s, tc.in)
			if len(rec.lines) != 0 {
				t.Fatalf("dispatched %q; want nothing", rec.lines)
			}
			if len(rec.overflows) != 0 {
				t.Fatalf("overflow fired; want nothing")
			}
			if !strings.HasSuffix(rec.out.String(), "% ") {
				t.Fatalf("output %q does not end with the prompt", rec.out.String())
			}
			if s.cnt != 0 {
				t.Fatalf("cnt=%d; want 0", s.cnt)
			}
		})
	}
}

func TestSession_BufferOverflowIsStickyPerByte(t *testing.T) {
	s, rec := newRecordedSession(Config{BufferLen: 8})

	feed(s, "abcdefgh") // exactly the capacity, no overflow yet
	if len(rec.overflows) != 0 {
		t.Fatalf("overflow fired at capacity; want only past it")
	}

	feed(s, "ijk")
	if len(rec.overflows) != 3 {
		t.Fatalf("overflow fired %d times; want once per extra byte (3)", len(rec.overflows))
	}
	for i, raw := range rec.overflows {
		if raw != "abcdefgh" {
			t.Fatalf("overflow[%d]=%q; want buffer terminated at capacity (%q)", i, raw, "abcdefgh")
		}
	}
	if s.cnt != 9 {
		t.Fatalf("cnt=%d; want sentinel 9", s.cnt)
	}
	if s.buf[8] != 0 {
		t.Fatalf("buf[8]=%q; want NUL terminator", s.buf[8])
	}

	// Overflowed bytes are never echoed.
	if got := rec.out.String(); got != "abcdefgh" {
		t.Fatalf("echo=%q; want %q", got, "abcdefgh")
	}
}

func TestSession_OverflowedLineStillExecutesOnNewline(t *testing.T) {
	// The sentinel-length buffer is tokenized and the truncated command
	// dispatches; callers that need stricter behavior hook the overflow
	// callback and discard the next dispatch themselves.
	s, rec := newRecordedSession(Config{BufferLen: 8})

	feed(s, "abcd efghij\n")

	if len(rec.overflows) != 3 {
		t.Fatalf("overflow fired %d times; want 3 (bytes h, i, j)", len(rec.overflows))
	}
	if len(rec.lines) != 1 {
		t.Fatalf("dispatched %d lines; want the truncated line", len(rec.lines))
	}
	got := rec.lines[0]
	want := []string{"abcd", "efg"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("argv=%q; want %q", got, want)
	}
	if s.cnt != 0 {
		t.Fatalf("cnt=%d after newline; want 0", s.cnt)
	}
}

func TestSession_ArgumentOverflow(t *testing.T) {
	s, rec := newRecordedSession(Config{ArgcMax: 3})

	feed(s, "a b c d\n")

	if len(rec.lines) != 0 {
		t.Fatalf("dispatched %q; want overflow instead", rec.lines)
	}
	if len(rec.overflows) != 1 {
		t.Fatalf("overflow fired %d times; want 1", len(rec.overflows))
	}
	// The buffer has been tokenized in place; the hand-off runs to the
	// first terminator, i.e. the first token.
	if rec.overflows[0] != "a" {
		t.Fatalf("overflow raw=%q; want first token \"a\"", rec.overflows[0])
	}
	if !strings.HasSuffix(rec.out.String(), "\n"+DefaultPrompt) {
		t.Fatalf("output %q does not end with newline and prompt", rec.out.String())
	}
	if s.cnt != 0 {
		t.Fatalf("cnt=%d after overflow line; want 0", s.cnt)
	}
}

func TestSession_DefaultOverflowDiagnostic(t *testing.T) {
	var out bytes.Buffer
	s := New(Config{BufferLen: 4})
	s.RegisterOutput(&out)

	feed(s, "abcde")
	if got := out.String(); got != "abcd\nesh: command buffer overflow\n" {
		t.Fatalf("output=%q; want echo then diagnostic", got)
	}
}

func TestSession_RegisterOverflowNilRestoresDefault(t *testing.T) {
	var out bytes.Buffer
	s := New(Config{BufferLen: 4})
	s.RegisterOutput(&out)
	s.RegisterOverflow(OverflowFunc(func([]byte) error { return nil }))
	s.RegisterOverflow(nil)

	feed(s, "abcde")
	if !strings.Contains(out.String(), "esh: command buffer overflow") {
		t.Fatalf("output=%q; want default diagnostic", out.String())
	}
}

func TestSession_PrintPrompt(t *testing.T) {
	var out bytes.Buffer
	s := New(Config{Prompt: "esh> "})
	s.RegisterOutput(&out)

	s.PrintPrompt()
	if got := out.String(); got != "esh> " {
		t.Fatalf("prompt=%q; want %q", got, "esh> ")
	}
}

func TestSession_ConsecutiveLines(t *testing.T) {
	s, rec := newRecordedSession(Config{})

	feed(s, "one\ntwo three\n")

	if len(rec.lines) != 2 {
		t.Fatalf("dispatched %d lines; want 2", len(rec.lines))
	}
	if rec.lines[0][0] != "one" || rec.lines[1][0] != "two" || rec.lines[1][1] != "three" {
		t.Fatalf("lines=%q", rec.lines)
	}
	if s.cnt != 0 {
		t.Fatalf("cnt=%d; want 0", s.cnt)
	}
}
