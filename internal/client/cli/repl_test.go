package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

type fakeExec struct {
	calls []string
}

func (f *fakeExec) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return nil
}

func (f *fakeExec) SetMode(_ context.Context, arg string) error { return f.record("mode %s", arg) }
func (f *fakeExec) ListClients(_ context.Context, offset int) error {
	return f.record("clients %d", offset)
}
func (f *fakeExec) ShowClient(_ context.Context, id int64) error { return f.record("client %d", id) }
func (f *fakeExec) ShowClientAccounts(_ context.Context, id int64) error {
	return f.record("accounts %d", id)
}
func (f *fakeExec) ListCenters(_ context.Context, offset int) error {
	return f.record("centers %d", offset)
}
func (f *fakeExec) ShowCenter(_ context.Context, id int64) error { return f.record("center %d", id) }
func (f *fakeExec) ListOffices(context.Context) error            { return f.record("offices") }
func (f *fakeExec) ListSurveys(context.Context) error            { return f.record("surveys") }
func (f *fakeExec) AddClient(context.Context) error              { return f.record("addclient") }
func (f *fakeExec) AddCenter(context.Context) error              { return f.record("addcenter") }
func (f *fakeExec) ListPending(context.Context) error            { return f.record("pending") }
func (f *fakeExec) EditPending(_ context.Context, t models.EntityType, id int64) error {
	return f.record("editpending %s %d", t, id)
}
func (f *fakeExec) DropPending(_ context.Context, t models.EntityType, id int64) error {
	return f.record("droppending %s %d", t, id)
}
func (f *fakeExec) Sync(_ context.Context, target string) error { return f.record("sync %s", target) }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func run(ctx context.Context, exec execIface, lines ...string) {
	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	runREPL(ctx, exec, func() string { return "(online)" }, sc)
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	run(context.Background(), exec,
		"help",
		"mode",
		"mode offline",
		"clients",
		"clients 100",
		"client 7",
		"accounts 7",
		"centers",
		"center 3",
		"offices",
		"surveys",
		"addclient",
		"addcenter",
		"pending",
		"editpending client 2",
		"droppending center 4",
		"sync",
		"sync client",
		"",
		"exit",
		"offices",
	)

	assert.Equal(t, []string{
		"mode ",
		"mode offline",
		"clients 0",
		"clients 100",
		"client 7",
		"accounts 7",
		"centers 0",
		"center 3",
		"offices",
		"surveys",
		"addclient",
		"addcenter",
		"pending",
		"editpending client 2",
		"droppending center 4",
		"sync all",
		"sync client",
	}, exec.calls)
}

func TestRunREPL_BadArgumentsAreReportedNotDispatched(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	run(context.Background(), exec,
		"client",
		"client abc",
		"center -1",
		"clients -5",
		"editpending client",
		"droppending loan 1",
		"foobar",
		"quit",
	)

	assert.Empty(t, exec.calls)
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Usage: client <id>")
	assert.Contains(t, joined, "Invalid id: abc")
	assert.Contains(t, joined, "Offset must be a non-negative number")
	assert.Contains(t, joined, "Usage: editpending <client|center> <localId>")
	assert.Contains(t, joined, "unknown entity")
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	out := capturePrintln(t)

	run(context.Background(), &fakeExec{}, "quit")

	require.NotEmpty(t, *out)
	assert.Equal(t, "fs (online)>", (*out)[0])
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	run(ctx, exec, "offices", "surveys")

	assert.Empty(t, exec.calls)
}

func TestRunREPL_EOFEndsLoop(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	sc := bufio.NewScanner(strings.NewReader("offices"))
	runREPL(context.Background(), exec, func() string { return "" }, sc)

	assert.Equal(t, []string{"offices"}, exec.calls)
}
