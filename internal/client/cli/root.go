package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user, asks for credentials and runs the REPL while the
// connectivity watcher runs in the background.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the timeline CLI (type 'help' for commands)")

	if err := a.Login(ctx); err != nil {
		a.log.Debug(ctx, "initial login failed", "error", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
