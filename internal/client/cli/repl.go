package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	SetMode(ctx context.Context, arg string) error
	ListClients(ctx context.Context, offset int) error
	ShowClient(ctx context.Context, id int64) error
	ShowClientAccounts(ctx context.Context, id int64) error
	ListCenters(ctx context.Context, offset int) error
	ShowCenter(ctx context.Context, id int64) error
	ListOffices(ctx context.Context) error
	ListSurveys(ctx context.Context) error
	AddClient(ctx context.Context) error
	AddCenter(ctx context.Context) error
	ListPending(ctx context.Context) error
	EditPending(ctx context.Context, t models.EntityType, localID int64) error
	DropPending(ctx context.Context, t models.EntityType, localID int64) error
	Sync(ctx context.Context, target string) error
}

const helpText = `Available commands:
  mode [online|offline|auto]   show or pin the connectivity mode
  clients [offset]             list clients
  client <id>                  show a client
  accounts <clientId>          show and store a client's accounts
  centers [offset]             list centers
  center <id>                  show a center with its groups
  offices                      list offices
  surveys                      list surveys
  addclient | addcenter        create a client or center
  pending                      list queued creations
  editpending <type> <localId> edit a queued creation
  droppending <type> <localId> discard a queued creation
  sync [client|center|all]     replay queued creations
  exit | quit                  leave the program`

// runREPL starts a simple read-eval-print loop for the fieldsync CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands and malformed
// arguments are reported back to the user. The loop exits on scanner EOF,
// when ctx is done, or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("fs %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		if runCommand(ctx, a, parts[0], parts[1:]) {
			return
		}
	}
}

// commandGuard is implemented by executors that must not run a command once
// they are closed. beginCommand reports false after Close.
type commandGuard interface {
	beginCommand() bool
	endCommand()
}

// runCommand dispatches one command and reports whether the loop must stop.
func runCommand(ctx context.Context, a execIface, cmd string, args []string) bool {
	if g, ok := a.(commandGuard); ok {
		if !g.beginCommand() {
			return true
		}
		defer g.endCommand()
	}
	return dispatch(ctx, a, cmd, args)
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) bool {
	switch cmd {
	case "help":
		printlnFn(helpText)

	case "mode":
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		_ = a.SetMode(ctx, arg)

	case "clients":
		if offset, ok := offsetArg(args); ok {
			_ = a.ListClients(ctx, offset)
		}

	case "client", "accounts":
		id, ok := idArg(args, "Usage: "+cmd+" <id>")
		if !ok {
			return false
		}
		if cmd == "client" {
			_ = a.ShowClient(ctx, id)
		} else {
			_ = a.ShowClientAccounts(ctx, id)
		}

	case "centers":
		if offset, ok := offsetArg(args); ok {
			_ = a.ListCenters(ctx, offset)
		}

	case "center":
		if id, ok := idArg(args, "Usage: center <id>"); ok {
			_ = a.ShowCenter(ctx, id)
		}

	case "offices":
		_ = a.ListOffices(ctx)

	case "surveys":
		_ = a.ListSurveys(ctx)

	case "addclient":
		_ = a.AddClient(ctx)

	case "addcenter":
		_ = a.AddCenter(ctx)

	case "pending":
		_ = a.ListPending(ctx)

	case "editpending", "droppending":
		t, localID, ok := pendingArgs(args, cmd)
		if !ok {
			return false
		}
		if cmd == "editpending" {
			_ = a.EditPending(ctx, t, localID)
		} else {
			_ = a.DropPending(ctx, t, localID)
		}

	case "sync":
		target := "all"
		if len(args) > 0 {
			target = args[0]
		}
		_ = a.Sync(ctx, target)

	case "exit", "quit":
		printlnFn("Bye!")
		return true

	default:
		printlnFn("Unknown command:", cmd)
	}
	return false
}

func offsetArg(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, true
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		printlnFn("Offset must be a non-negative number")
		return 0, false
	}
	return n, true
}

func idArg(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		printlnFn(usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		printlnFn("Invalid id:", args[0])
		return 0, false
	}
	return id, true
}

func pendingArgs(args []string, cmd string) (models.EntityType, int64, bool) {
	usage := "Usage: " + cmd + " <client|center> <localId>"
	if len(args) < 2 {
		printlnFn(usage)
		return "", 0, false
	}
	t, err := models.ParseEntityType(args[0])
	if err != nil {
		printlnFn(err.Error())
		return "", 0, false
	}
	id, ok := idArg(args[1:], usage)
	return t, id, ok
}
