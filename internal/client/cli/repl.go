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

// execIface is the command surface the REPL drives. App satisfies it; tests
// provide a recording stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Go(ctx context.Context, path string) error

	Documents(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Status(ctx context.Context, id string) error
	Upload(ctx context.Context, path string) error
	Delete(ctx context.Context, id string) error
	Poll(ctx context.Context) error

	Sessions(ctx context.Context) error
	Open(ctx context.Context, id string) error
	NewChat(ctx context.Context) error
	Ask(ctx context.Context, question string) error
	RemoveSession(ctx context.Context, id string) error
}

// protected lists the commands that need a signed-in user.
var protected = map[string]bool{
	"me": true, "docs": true, "show": true, "status": true, "upload": true,
	"delete": true, "poll": true, "sessions": true, "open": true, "new": true,
	"ask": true, "rmsession": true,
}

// usage lists commands that take one argument.
var usage = map[string]string{
	"go":        "go <path>",
	"show":      "show <document-id>",
	"status":    "status <document-id>",
	"upload":    "upload <file>",
	"delete":    "delete <document-id>",
	"open":      "open <session-id>",
	"rmsession": "rmsession <session-id>",
}

const (
	helpSignedOut = "Available commands: register, login, go <path>, exit"
	helpSignedIn  = "Available commands: docs, show <id>, status <id>, upload <file>, delete <id>, poll, " +
		"sessions, open <id>, new, ask [question], rmsession <id>, me, go <path>, logout, exit"
)

// runREPL reads commands from reader until EOF or "exit"/"quit".
//
// The first word of a line is the command and the rest its arguments.
// Commands that need a session are refused while signed out. Errors from
// command handlers are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("docassist %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		var cmdErr error

		if protected[cmd] && !a.isLoggedIn(ctx) {
			printlnFn("Please log in first (register | login).")
			continue
		}
		if u, ok := usage[cmd]; ok && len(args) == 0 {
			printlnFn("Usage:", u)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "me":
			cmdErr = a.Me(ctx)
		case "go":
			cmdErr = a.Go(ctx, args[0])

		case "docs", "l", "list":
			cmdErr = a.Documents(ctx)
		case "show":
			cmdErr = a.Show(ctx, args[0])
		case "status":
			cmdErr = a.Status(ctx, args[0])
		case "upload":
			cmdErr = a.Upload(ctx, strings.Join(args, " "))
		case "delete":
			cmdErr = a.Delete(ctx, args[0])
		case "poll":
			cmdErr = a.Poll(ctx)

		case "sessions":
			cmdErr = a.Sessions(ctx)
		case "open":
			cmdErr = a.Open(ctx, args[0])
		case "new":
			cmdErr = a.NewChat(ctx)
		case "ask":
			cmdErr = a.Ask(ctx, strings.Join(args, " "))
		case "rmsession":
			cmdErr = a.RemoveSession(ctx, args[0])

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
	}
}
