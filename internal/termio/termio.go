// Package termio adapts byte transports to the session's strict '\n'
// line-ending contract: raw-mode terminals and telnet-ish peers send
// '\r' and want "\r\n" back.
package termio

import "io"

// CRLFWriter inserts '\r' before every '\n' it forwards.
type CRLFWriter struct {
	w io.Writer
}

func NewCRLFWriter(w io.Writer) *CRLFWriter {
	return &CRLFWriter{w: w}
}

var crlf = []byte("\r\n")

func (c *CRLFWriter) Write(p []byte) (int, error) {
	written := 0
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] != '\n' {
			continue
		}
		if i > start {
			n, err := c.w.Write(p[start:i])
			written += n
			if err != nil {
				return written, err
			}
		}
		if _, err := c.w.Write(crlf); err != nil {
			return written, err
		}
		written++ // the '\n' itself
		start = i + 1
	}
	if start < len(p) {
		n, err := c.w.Write(p[start:])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// FeedBytes pushes a chunk of received bytes into rx, translating '\r'
// to '\n'. A "\r\n" pair would complete the line twice, so the '\n' of
// a pair is dropped. lastCR carries the pair state across chunks.
// rx returns false to stop; FeedBytes reports whether feeding may
// continue.
func FeedBytes(rx func(byte) bool, p []byte, lastCR *bool) bool {
	for _, c := range p {
		if c == '\n' && *lastCR {
			*lastCR = false
			continue
		}
		*lastCR = c == '\r'
		if c == '\r' {
			c = '\n'
		}
		if !rx(c) {
			return false
		}
	}
	return true
}

// Pump reads r until EOF, error, or rx asking to stop, feeding every
// byte through rx with CR translation. EOF and rx-stop return nil.
func Pump(r io.Reader, rx func(byte) bool) error {
	var buf [256]byte
	var lastCR bool
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			if !FeedBytes(rx, buf[:n], &lastCR) {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
