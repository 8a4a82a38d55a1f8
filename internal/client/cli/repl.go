package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/guildadmin/internal/client/api"
	"github.com/dmitrijs2005/guildadmin/internal/client/discord"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Callback(ctx context.Context, code string) error
	Status(ctx context.Context) error
	Whoami(ctx context.Context) error
	Guilds(ctx context.Context) error
	Select(ctx context.Context, id string) error
	Channels(ctx context.Context) error
	Channel(ctx context.Context, id string) error
	MkChannel(ctx context.Context, name, kind string) error
	RmChannel(ctx context.Context, ids []string) error
	Categories(ctx context.Context) error
	MkCategory(ctx context.Context, name string) error
	RmCategory(ctx context.Context, id string) error
	Roles(ctx context.Context) error
	MkRole(ctx context.Context, name string) error
	RmRole(ctx context.Context, id string) error
	Bot(ctx context.Context) error
	Metrics(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: login, callback <code>, status, metrics, exit"
	helpLoggedIn  = "Available commands: status, whoami, guilds, select <id>, " +
		"channels, channel <id>, mkchannel <name> [type], rmchannel <id...>, " +
		"categories, mkcategory <name>, rmcategory <id>, " +
		"roles, mkrole <name>, rmrole <id>, bot, metrics, logout, exit"
)

// runREPL starts a read–eval–print loop for the GuildAdmin CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands and missing
// arguments are reported back to the user. The loop exits on scanner EOF or
// when the user types "exit" or "quit".
//
// The prompt shows the current status (from statusFn). Errors returned by
// command handlers are printed by reportError and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ga%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "login":
			err = a.Login(ctx)

		case "callback":
			code := ""
			if len(args) > 0 {
				code = args[0]
			}
			err = a.Callback(ctx, code)

		case "status":
			err = a.Status(ctx)

		case "whoami":
			err = a.Whoami(ctx)

		case "guilds":
			err = a.Guilds(ctx)

		case "select":
			if len(args) == 0 {
				printlnFn("Usage: select <guildID>")
				continue
			}
			err = a.Select(ctx, args[0])

		case "channels":
			err = a.Channels(ctx)

		case "channel":
			if len(args) == 0 {
				printlnFn("Usage: channel <id>")
				continue
			}
			err = a.Channel(ctx, args[0])

		case "mkchannel":
			if len(args) == 0 {
				printlnFn("Usage: mkchannel <name> [text|voice|news|stage|forum]")
				continue
			}
			kind := ""
			if len(args) > 1 {
				kind = args[1]
			}
			err = a.MkChannel(ctx, args[0], kind)

		case "rmchannel":
			if len(args) == 0 {
				printlnFn("Usage: rmchannel <id...>")
				continue
			}
			err = a.RmChannel(ctx, args)

		case "categories":
			err = a.Categories(ctx)

		case "mkcategory":
			if len(args) == 0 {
				printlnFn("Usage: mkcategory <name>")
				continue
			}
			err = a.MkCategory(ctx, strings.Join(args, " "))

		case "rmcategory":
			if len(args) == 0 {
				printlnFn("Usage: rmcategory <id>")
				continue
			}
			err = a.RmCategory(ctx, args[0])

		case "roles":
			err = a.Roles(ctx)

		case "mkrole":
			if len(args) == 0 {
				printlnFn("Usage: mkrole <name>")
				continue
			}
			err = a.MkRole(ctx, strings.Join(args, " "))

		case "rmrole":
			if len(args) == 0 {
				printlnFn("Usage: rmrole <id>")
				continue
			}
			err = a.RmRole(ctx, args[0])

		case "bot":
			err = a.Bot(ctx)

		case "metrics":
			err = a.Metrics(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			reportError(err)
		}
	}
}

// reportError prints err with a hint for the errors a user can act on.
func reportError(err error) {
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		printlnFn("Session expired. Run 'login' to sign in again.")
	case errors.Is(err, discord.ErrNoGuild):
		printlnFn("No guild selected. Run 'guilds' and then 'select <id>'.")
	case errors.Is(err, api.ErrForbidden):
		printlnFn("The bot lacks permission for this action:", err)
	case errors.Is(err, api.ErrUnavailable):
		printlnFn("Backend unavailable:", err)
	default:
		printlnFn("Error:", err)
	}
}
