package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// shell is the command surface the REPL drives. *App implements it.
type shell interface {
	loggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Page(ctx context.Context, n int) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Show(ctx context.Context) error
	Save(ctx context.Context, bookID string) error
	Remove(ctx context.Context, bookID string) error
	Saved(ctx context.Context) error
}

const (
	helpGuest = "Available commands: search <query>, page <n>, next, prev, show, register, login, help, exit"
	helpUser  = "Available commands: search <query>, page <n>, next, prev, show, save <bookId>, remove <bookId>, saved, logout, help, exit"
)

// runREPL reads one command per line and dispatches it. Handlers print
// their own results and errors, so their return values are dropped here.
// The loop ends on EOF, "exit" or "quit".
func runREPL(ctx context.Context, a shell, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("navigator [%s] > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		if quit := dispatch(ctx, a, strings.Fields(line)); quit {
			return
		}
	}
}

func dispatch(ctx context.Context, a shell, parts []string) bool {
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "help":
		if a.loggedIn() {
			printlnFn(helpUser)
		} else {
			printlnFn(helpGuest)
		}

	case "search":
		_ = a.Search(ctx, strings.Join(args, " "))

	case "page":
		n, ok := intArg(args)
		if !ok {
			printlnFn("Usage: page <n>")
			return false
		}
		_ = a.Page(ctx, n)

	case "next":
		_ = a.Next(ctx)

	case "prev":
		_ = a.Prev(ctx)

	case "show":
		_ = a.Show(ctx)

	case "save":
		if len(args) != 1 {
			printlnFn("Usage: save <bookId>")
			return false
		}
		_ = a.Save(ctx, args[0])

	case "remove":
		if len(args) != 1 {
			printlnFn("Usage: remove <bookId>")
			return false
		}
		_ = a.Remove(ctx, args[0])

	case "saved":
		_ = a.Saved(ctx)

	case "register":
		_ = a.Register(ctx)

	case "login":
		_ = a.Login(ctx)

	case "logout":
		_ = a.Logout(ctx)

	case "exit", "quit":
		printlnFn("Bye!")
		return true

	default:
		printlnFn("Unknown command:", cmd)
	}
	return false
}

func intArg(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	return n, err == nil
}
