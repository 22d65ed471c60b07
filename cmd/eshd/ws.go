package main

import (
	"io"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWS serves a shell session over a WebSocket, for browser
// terminals like xterm.js. Frames carry raw bytes in both directions.
func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := s.logger.With().
		Str("remote", conn.RemoteAddr().String()).
		Str("transport", "ws").Logger()

	stream := &wsByteStream{conn: conn}
	s.session(stream, stream, logger, "ws")
}

// wsByteStream presents a message-oriented WebSocket as a byte stream.
// It is used from a single session goroutine only.
type wsByteStream struct {
	conn    *websocket.Conn
	pending []byte
}

func (s *wsByteStream) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			// Close frames and broken peers all end the session the
			// same way.
			return 0, io.EOF
		}
		s.pending = data
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *wsByteStream) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
