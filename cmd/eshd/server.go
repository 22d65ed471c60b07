package main

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Xenoamor/esh"
	"github.com/Xenoamor/esh/internal/buildinfo"
	"github.com/Xenoamor/esh/internal/commands"
	"github.com/Xenoamor/esh/internal/termio"
)

type server struct {
	cfg      esh.Config
	registry *commands.Registry
	logger   zerolog.Logger
	metrics  *metrics
}

func newServer(cfg esh.Config, reg *commands.Registry, logger zerolog.Logger, prom prometheus.Registerer) *server {
	return &server{
		cfg:      cfg,
		registry: reg,
		logger:   logger,
		metrics:  newMetrics(prom),
	}
}

func (s *server) serveTCP(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

func (s *server) handleConn(conn net.Conn) {
	defer conn.Close()
	logger := s.logger.With().
		Str("remote", conn.RemoteAddr().String()).
		Str("transport", "tcp").Logger()
	s.session(conn, conn, logger, "tcp")
}

// session drives one shell session over a byte transport. It returns
// when the peer goes away or an exit command runs. Each call owns its
// session outright; concurrent sessions never touch shared mutable
// state, which is the whole scaling model here.
func (s *server) session(r io.Reader, w io.Writer, logger zerolog.Logger, transport string) {
	s.metrics.sessionsTotal.WithLabelValues(transport).Inc()
	s.metrics.sessionsActive.Inc()
	defer s.metrics.sessionsActive.Dec()
	logger.Info().Msg("session opened")

	out := termio.NewCRLFWriter(w)
	sess := esh.New(s.cfg)
	sess.RegisterOutput(out)

	var quit bool
	sess.RegisterDispatcher(esh.DispatcherFunc(func(argv [][]byte) {
		s.metrics.linesTotal.WithLabelValues(transport).Inc()
		args := commands.Strings(argv)
		logger.Debug().Strs("argv", args).Msg("dispatch")
		if err := s.registry.Run(out, args); err != nil {
			if errors.Is(err, commands.ErrExit) {
				quit = true
				return
			}
			fmt.Fprintf(out, "%s: %v\n", args[0], err)
		}
	}))
	sess.RegisterOverflow(esh.OverflowFunc(func(raw []byte) error {
		s.metrics.overflowsTotal.Inc()
		logger.Warn().Int("len", len(raw)).Msg("overflow")
		_, err := io.WriteString(out, "\neshd: command buffer overflow\n")
		return err
	}))

	fmt.Fprintf(out, "eshd %s - type 'help'; 'exit' to disconnect\n", buildinfo.Short())
	sess.PrintPrompt()

	err := termio.Pump(r, func(c byte) bool {
		sess.Rx(c)
		return !quit
	})
	if err != nil {
		logger.Debug().Err(err).Msg("transport closed")
	}
	logger.Info().Msg("session closed")
}
