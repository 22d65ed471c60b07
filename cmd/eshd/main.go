// Command eshd is a multi-session shell console daemon: every TCP or
// WebSocket connection gets its own independent session, driven by its
// own goroutine with no coordination between sessions.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Xenoamor/esh"
	"github.com/Xenoamor/esh/internal/buildinfo"
	"github.com/Xenoamor/esh/internal/commands"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "eshd:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		listen     string
		httpListen string
		prompt     string
		bufferLen  int
		argcMax    int
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "eshd",
		Short:         "Shell console daemon serving one session per connection",
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("parse log level: %w", err)
			}
			cfg := esh.Config{Prompt: prompt, BufferLen: bufferLen, ArgcMax: argcMax}
			return run(listen, httpListen, cfg, level)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", ":7023", "TCP console listen address")
	cmd.Flags().StringVar(&httpListen, "http-listen", ":8080", "HTTP listen address (/ws console, /metrics)")
	cmd.Flags().StringVar(&prompt, "prompt", esh.DefaultPrompt, "prompt string")
	cmd.Flags().IntVar(&bufferLen, "buffer-len", esh.DefaultBufferLen, "maximum command length in bytes")
	cmd.Flags().IntVar(&argcMax, "argc-max", esh.DefaultArgcMax, "maximum argument count")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace..error)")
	return cmd
}

func run(listen, httpListen string, cfg esh.Config, level zerolog.Level) error {
	logger := zerolog.New(os.Stderr).Level(level).
		With().Timestamp().Str("version", buildinfo.Short()).Logger()

	reg := commands.NewRegistry()
	if err := commands.RegisterBuiltins(reg); err != nil {
		return err
	}

	srv := newServer(cfg, reg, logger, prometheus.DefaultRegisterer)

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", listen, err)
	}
	logger.Info().Str("addr", ln.Addr().String()).Msg("tcp console listening")

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.handleWS)
	mux.Handle("/metrics", promhttp.Handler())
	httpSrv := &http.Server{
		Addr:              httpListen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() { errCh <- srv.serveTCP(ln) }()
	go func() {
		logger.Info().Str("addr", httpListen).Msg("http listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		_ = ln.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		_ = ln.Close()
		_ = httpSrv.Close()
		return err
	}
}
