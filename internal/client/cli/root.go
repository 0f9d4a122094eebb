package cli

import (
	"bufio"
	"context"
)

// Root prints the banner, starts the connectivity watcher and runs the REPL
// on the App's input until the user leaves. The watcher stops with the REPL
// or with ctx; Close waits for it.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to fieldsync CLI (type 'help' for commands)")

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.background.Add(1)
	go func() {
		defer a.background.Done()
		a.StartOnlineStatusWatcher(wctx)
	}()

	scanner := bufio.NewScanner(lineSource{r: a.reader})
	runREPL(ctx, a, a.getStatus, scanner)
}
