package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
//	Not logged in:
//	  help, register, login, exit | quit
//
//	Logged in:
//	  help, (l)ist, show <id>, add, edit <id>, delete <id>, logout, exit | quit
//
// Errors returned by command handlers are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "tl %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := parts[0], strings.Join(parts[1:], " ")

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: (l)ist, show <id>, add, edit <id>, delete <id>, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "l", "list", "show", "add", "edit", "delete", "logout":
			if !a.isLoggedIn() {
				fmt.Fprintln(w, "Please login first")
				continue
			}
			cmdErr = dispatchSession(ctx, a, cmd, arg, w)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
	}
}

func dispatchSession(ctx context.Context, a execIface, cmd, arg string, w io.Writer) error {
	needsID := cmd == "show" || cmd == "edit" || cmd == "delete"
	if needsID && arg == "" {
		fmt.Fprintf(w, "Usage: %s <id>\n", cmd)
		return nil
	}

	switch cmd {
	case "l", "list":
		return a.List(ctx)
	case "show":
		return a.Show(ctx, arg)
	case "add":
		return a.Add(ctx)
	case "edit":
		return a.Edit(ctx, arg)
	case "delete":
		return a.Delete(ctx, arg)
	default:
		return a.Logout(ctx)
	}
}
