// Command esh runs an interactive demo shell on the local terminal,
// the way the embedded core would sit on a UART: the tty is switched to
// raw mode and fed into a session byte by byte.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Xenoamor/esh"
	"github.com/Xenoamor/esh/internal/buildinfo"
	"github.com/Xenoamor/esh/internal/commands"
	"github.com/Xenoamor/esh/internal/termio"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "esh:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		prompt    string
		bufferLen int
		argcMax   int
		debug     bool
	)

	cmd := &cobra.Command{
		Use:           "esh",
		Short:         "Interactive demo shell on the local terminal",
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(prompt, bufferLen, argcMax, debug)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", esh.DefaultPrompt, "prompt string")
	cmd.Flags().IntVar(&bufferLen, "buffer-len", esh.DefaultBufferLen, "maximum command length in bytes")
	cmd.Flags().IntVar(&argcMax, "argc-max", esh.DefaultArgcMax, "maximum argument count")
	cmd.Flags().BoolVar(&debug, "debug", false, "log dispatched lines to stderr")
	return cmd
}

func run(prompt string, bufferLen, argcMax int, debug bool) error {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("must run on a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	reg := commands.NewRegistry()
	if err := commands.RegisterBuiltins(reg); err != nil {
		return err
	}

	out := termio.NewCRLFWriter(os.Stdout)
	sess := esh.New(esh.Config{Prompt: prompt, BufferLen: bufferLen, ArgcMax: argcMax})
	sess.RegisterOutput(out)

	var quit bool
	sess.RegisterDispatcher(esh.DispatcherFunc(func(argv [][]byte) {
		args := commands.Strings(argv)
		logger.Debug().Strs("argv", args).Msg("dispatch")
		if err := reg.Run(out, args); err != nil {
			if errors.Is(err, commands.ErrExit) {
				quit = true
				return
			}
			fmt.Fprintf(out, "%s: %v\n", args[0], err)
		}
	}))

	fmt.Fprintf(out, "esh %s - type 'help'; 'exit' to quit\n", buildinfo.Short())
	sess.PrintPrompt()

	if err := termio.Pump(os.Stdin, func(c byte) bool {
		sess.Rx(c)
		return !quit
	}); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	fmt.Fprintln(out)
	return nil
}
