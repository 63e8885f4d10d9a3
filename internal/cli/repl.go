package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Scan(ctx context.Context) error
	Rerun(ctx context.Context) error
	History(ctx context.Context) error
	Show(ctx context.Context, ref string) error
	Export(ctx context.Context, ref, dir string) error
	Clear(ctx context.Context) error
}

const (
	helpGuest = "Available commands: register, login, help, exit"
	helpUser  = "Available commands: upload <path>, scan, rerun, history, show <n|id>, export <n|id> [dir], clear, whoami, logout, help, exit"
)

// needsLogin lists commands refused until someone is logged in.
var needsLogin = map[string]bool{
	"logout": true, "whoami": true,
	"upload": true, "scan": true, "rerun": true,
	"history": true, "h": true, "show": true, "export": true, "clear": true,
}

// runREPL starts the read–eval–print loop of the TriVision CLI.
//
// It reads a line from reader, writes prompts and usage hints to out, takes the first token as the command and
// dispatches to a. Unknown commands are reported back to the user. The loop
// exits on EOF, on "exit"/"quit", or once ctx is canceled.
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "trivision %s> \n", statusFn())
		line, ok := readLine(reader)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsLogin[cmd] && !a.isLoggedIn() {
			fmt.Fprintln(out, "Please register or login first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpUser)
			} else {
				fmt.Fprintln(out, helpGuest)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "upload":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: upload <path>")
				continue
			}
			_ = a.Upload(ctx, strings.Join(args, " "))

		case "scan":
			_ = a.Scan(ctx)

		case "rerun":
			_ = a.Rerun(ctx)

		case "h", "history":
			_ = a.History(ctx)

		case "show":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: show <n|id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "export":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: export <n|id> [dir]")
				continue
			}
			dir := exportDir
			if len(args) > 1 {
				dir = args[1]
			}
			_ = a.Export(ctx, args[0], dir)

		case "clear":
			_ = a.Clear(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}
