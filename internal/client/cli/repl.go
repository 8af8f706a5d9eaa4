package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Process(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Diag(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, diag, exit"
	helpLoggedIn  = "Available commands: (l)ist, show <id>, edit <field-id>, upload <path> [title], process <id>, stats, export <id> <file.xlsx>, whoami, diag, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the docproc CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Unknown commands are reported back to the user. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                     show available commands
//	  - register                 create an account
//	  - login                    authenticate
//	  - diag                     connection and request diagnostics
//	  - exit | quit              leave the program
//
//	Logged in:
//	  - l | list | dashboard     list documents
//	  - show <id>                document detail with extracted fields
//	  - edit <field-id>          edit a field of the document being shown
//	  - upload <path> [title]    upload a local, s3:// or gs:// file
//	  - process <id>             run extraction on a document
//	  - stats                    per-status document counts
//	  - export <id> <file.xlsx>  write extracted fields to Excel
//	  - whoami                   show the current user
//	  - logout                   log out
//
// Errors returned by command handlers are not printed here; handlers render
// their own error states. This keeps the REPL loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "docproc %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list", "dashboard":
			_ = a.Dashboard(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "edit":
			_ = a.Edit(ctx, args)

		case "upload":
			_ = a.Upload(ctx, args)

		case "process":
			_ = a.Process(ctx, args)

		case "stats":
			_ = a.Stats(ctx)

		case "export":
			_ = a.Export(ctx, args)

		case "diag":
			_ = a.Diag(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
