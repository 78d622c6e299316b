package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Status(ctx context.Context) error
	ShowToken(ctx context.Context) error
	Endpoints(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the sessionkit CLI.
//
// It reads a line from reader (shared with the command prompts), parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help              show available commands
//	  - login             authenticate
//	  - signup            create an account and log in
//	  - reset             request a password reset
//	  - whoami            restore a stored session
//	  - status | token | endpoints
//	  - exit | quit       leave the program
//
//	Logged in:
//	  - help, whoami, refresh, status, token, endpoints, logout, exit
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		err = nil
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, refresh, status, token, endpoints, logout, exit")
			} else {
				printlnFn("Available commands: login, signup, reset, whoami, status, token, endpoints, exit")
			}

		case "login":
			err = a.Login(ctx)

		case "signup":
			err = a.Signup(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami", "me":
			err = a.WhoAmI(ctx)

		case "refresh":
			err = a.Refresh(ctx)

		case "reset":
			err = a.ResetPassword(ctx)

		case "status":
			err = a.Status(ctx)

		case "token":
			err = a.ShowToken(ctx)

		case "endpoints":
			err = a.Endpoints(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
