package commands

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/Xenoamor/esh/internal/buildinfo"
)

// RegisterBuiltins installs the standard demo commands.
func RegisterBuiltins(r *Registry) error {
	for _, cmd := range []Command{
		{Name: "help", Usage: "help", Desc: "Show available commands.", Run: makeHelp(r)},
		{Name: "echo", Usage: "echo [args...]", Desc: "Print arguments.", Run: cmdEcho},
		{Name: "clear", Usage: "clear", Desc: "Clear the terminal.", Run: cmdClear},
		{Name: "version", Usage: "version", Desc: "Show build version.", Run: cmdVersion},
		{Name: "exit", Aliases: []string{"quit"}, Usage: "exit", Desc: "Close the session.", Run: cmdExit},
	} {
		if err := r.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

func makeHelp(r *Registry) Handler {
	return func(out io.Writer, _ []string) error {
		for _, name := range r.Names() {
			cmd, ok := r.Resolve(name)
			if !ok {
				continue
			}
			fmt.Fprintf(out, "%-10s %s\n", cmd.Name, cmd.Desc)
		}
		return nil
	}
}

func cmdEcho(out io.Writer, args []string) error {
	_, err := io.WriteString(out, strings.Join(args, " ")+"\n")
	return err
}

func cmdClear(out io.Writer, _ []string) error {
	_, err := io.WriteString(out, "\x1b[2J\x1b[H")
	return err
}

func cmdVersion(out io.Writer, _ []string) error {
	fmt.Fprintf(out, "esh %s (%s, %s/%s)\n",
		buildinfo.Short(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}

func cmdExit(io.Writer, []string) error {
	return ErrExit
}
