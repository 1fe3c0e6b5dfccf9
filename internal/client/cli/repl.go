package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Profile(ctx context.Context) error
	Select(ctx context.Context, path string) error
	Upload(ctx context.Context, path string) error
	Countries(ctx context.Context) error
	Status(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the gpcli client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account
//	  - login            sign in
//	  - countries        list the selectable countries
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - help             show available commands
//	  - profile          reload and show the profile
//	  - select <path>    choose a profile image
//	  - upload [path]    upload the chosen image (or choose and upload path)
//	  - status           show session details
//	  - logout           sign out
//	  - exit | quit      leave the program
//
// Errors returned by command handlers are not printed here; handlers report
// their own failures. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gp %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
				printlnFn("Available commands: profile, select <path>, upload [path], status, logout, exit")
			} else {
				printlnFn("Available commands: login, register, countries, status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "select":
			if len(args) != 1 {
				printlnFn("Usage: select <path>")
				continue
			}
			_ = a.Select(ctx, args[0])

		case "upload":
			if len(args) > 1 {
				printlnFn("Usage: upload [path]")
				continue
			}
			_ = a.Upload(ctx, strings.Join(args, ""))

		case "countries":
			_ = a.Countries(ctx)

		case "status":
			_ = a.Status(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
