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
	Logout(ctx context.Context) error
	Use(ctx context.Context, category string) error
	List(ctx context.Context) error
	Page(ctx context.Context, n string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Select(ctx context.Context, id string) error
	SelectAll(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context) error
	Compose(ctx context.Context) error
	Templates(ctx context.Context) error
	NewTemplate(ctx context.Context) error
	Drafts(ctx context.Context) error
	Browse(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the admin console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - use <category> — switch directory (arcer, student, community, company, educator)
//	  - list | l       — print the current directory page
//	  - page <n>       — jump to page n
//	  - next | prev    — paginate
//	  - search <text>  — filter visible rows (empty to reset)
//	  - select <id>    — toggle one row
//	  - selectall      — toggle all visible rows
//	  - add            — invite a new administrative account
//	  - edit <id>      — edit an administrative account
//	  - delete         — bulk delete the selection
//	  - compose        — start the bulk email flow for the selection
//	  - templates      — list email templates
//	  - newtemplate    — register a new email template
//	  - drafts         — list and resume stored compose drafts
//	  - browse         — open the full-screen directory browser
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("arc> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: use, (l)ist, page, next, prev, search, select, selectall, add, edit, delete, compose, templates, newtemplate, drafts, browse, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "use":
			if len(args) == 0 {
				printlnFn("Usage: use <category>")
				continue
			}
			_ = a.Use(ctx, args[0])

		case "l", "list":
			_ = a.List(ctx)

		case "page":
			if len(args) == 0 {
				printlnFn("Usage: page <n>")
				continue
			}
			_ = a.Page(ctx, args[0])

		case "next":
			_ = a.Next(ctx)

		case "prev":
			_ = a.Prev(ctx)

		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "select":
			if len(args) == 0 {
				printlnFn("Usage: select <id>")
				continue
			}
			_ = a.Select(ctx, args[0])

		case "selectall":
			_ = a.SelectAll(ctx)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			if len(args) == 0 {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, args[0])

		case "delete":
			_ = a.Delete(ctx)

		case "compose":
			_ = a.Compose(ctx)

		case "templates":
			_ = a.Templates(ctx)

		case "newtemplate":
			_ = a.NewTemplate(ctx)

		case "drafts":
			_ = a.Drafts(ctx)

		case "browse":
			_ = a.Browse(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
