package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	SyncNow(ctx context.Context) error
	Status(ctx context.Context) error
	ListAnimals(ctx context.Context) error
	RegisterAnimal(ctx context.Context) error
	MoveAnimals(ctx context.Context) error
	Feed(ctx context.Context) error
	Weigh(ctx context.Context) error
	Retire(ctx context.Context) error
	ListFeed(ctx context.Context) error
	AddStock(ctx context.Context) error
	LogVisit(ctx context.Context) error
	Treat(ctx context.Context) error
	Breed(ctx context.Context) error
	ListSections(ctx context.Context) error
	NewSection(ctx context.Context) error
	NewPen(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by command handlers are printed and the loop continues;
// a failed command never ends the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("granja> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, sync, pigs, register, move, feed, weigh, retire, treat, breed, sections, newsection, newpen, stock, addstock, visit, logout, exit")
			} else {
				printlnFn("Available commands: login, status, pigs, register, move, feed, weigh, retire, treat, breed, sections, newsection, newpen, stock, addstock, visit, exit")
			}
		case "exit", "quit":
			return
		default:
			if err := dispatch(ctx, a, cmd); err != nil {
				printlnFn("Error:", err)
			}
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string) error {
	switch cmd {
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "sync":
		return a.SyncNow(ctx)
	case "status":
		return a.Status(ctx)
	case "pigs":
		return a.ListAnimals(ctx)
	case "register":
		return a.RegisterAnimal(ctx)
	case "move":
		return a.MoveAnimals(ctx)
	case "feed":
		return a.Feed(ctx)
	case "weigh":
		return a.Weigh(ctx)
	case "retire":
		return a.Retire(ctx)
	case "stock":
		return a.ListFeed(ctx)
	case "addstock":
		return a.AddStock(ctx)
	case "visit":
		return a.LogVisit(ctx)
	case "treat":
		return a.Treat(ctx)
	case "breed":
		return a.Breed(ctx)
	case "sections":
		return a.ListSections(ctx)
	case "newsection":
		return a.NewSection(ctx)
	case "newpen":
		return a.NewPen(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}
