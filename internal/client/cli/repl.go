package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface runREPL dispatches to. *App implements it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Reconnect(ctx context.Context) error
	FocusAreas(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	New(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Archive(ctx context.Context, args []string) error
}

// errUsage is returned by commands called with the wrong arguments.
var errUsage = errors.New("usage")

var usage = map[string]string{
	"show":   "show <id>",
	"edit":   "edit <id>",
	"delete": "delete <id>",
	"import": "import <file>",
}

// runREPL reads commands from in until EOF, "exit"/"quit" or ctx is done.
// Command errors are reported to out and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "journal (%s)> ", statusFn())

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: (l)ist, show <id>, new, edit <id>, delete <id>, focus, export [file], import <file>, archive [file], whoami, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, reconnect, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "reconnect":
			cmdErr = a.Reconnect(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.Whoami(ctx)
		case "focus":
			cmdErr = a.FocusAreas(ctx)
		case "l", "list":
			cmdErr = a.List(ctx)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "new":
			cmdErr = a.New(ctx)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "export":
			cmdErr = a.Export(ctx, args)
		case "import":
			cmdErr = a.Import(ctx, args)
		case "archive":
			cmdErr = a.Archive(ctx, args)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		switch {
		case cmdErr == nil:
		case errors.Is(cmdErr, errUsage):
			fmt.Fprintln(out, "Usage:", usage[cmd])
		default:
			fmt.Fprintln(out, "Error:", describe(cmdErr))
		}
	}
}

func singleArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", errUsage
	}
	return args[0], nil
}
