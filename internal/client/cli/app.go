package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/client/client"
	"github.com/dmitrijs2005/clipshare/internal/client/config"
	"github.com/dmitrijs2005/clipshare/internal/client/services"
	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	sessions services.SessionService
	clips    services.ClipService
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(c *config.Config, ss services.SessionService, cs services.ClipService, l logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		sessions: ss,
		clips:    cs,
		logger:   l.With("module", "cli"),
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

func (a *App) getMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// setMode reports whether the mode actually changed.
func (a *App) setMode(ctx context.Context, mode Mode) bool {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", mode)
	}
	return changed
}

func (a *App) inSession() bool {
	_, _, err := a.sessions.Current()
	return err == nil
}

func (a *App) getStatus() string {
	s := ""
	if st, _, err := a.sessions.Current(); err == nil {
		s = st.Code
		if st.IsHost {
			s += " host"
		}
		s += " "
	}
	if m := a.getMode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// requestContext bounds a single relay round trip.
func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// Run greets the user, resumes the last session, starts the connectivity
// watcher and blocks in the REPL until exit or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.sessions.Close(); err != nil {
			a.logger.Warn(ctx, "close", "error", err)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to clipshare (type 'help' for commands)")

	a.checkOnline(ctx)
	a.resume(ctx)

	// the watcher must be gone before sessions are closed
	var wg sync.WaitGroup
	wctx, stop := context.WithCancel(ctx)
	defer func() {
		stop()
		wg.Wait()
	}()

	if a.config != nil && a.config.OnlineCheckInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.StartOnlineStatusWatcher(wctx, a.config.OnlineCheckInterval)
		}()
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	return nil
}

// resume rejoins the session used last, if any.
func (a *App) resume(ctx context.Context) {
	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	code, err := a.sessions.LastSession(rctx)
	if err != nil || code == "" {
		return
	}

	st, err := a.sessions.Join(rctx, code)
	if err != nil {
		a.logger.Warn(ctx, "resume failed", "code", common.MaskSessionCode(code), "error", err)
		fmt.Fprintf(a.out, "Could not rejoin session %s: %s\n", code, describeError(err))
		return
	}
	fmt.Fprintf(a.out, "Rejoined session %s%s\n", st.Code, offlineSuffix(st))
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := a.requestContext(ctx)
	err := a.sessions.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}

	if a.setMode(ctx, ModeOnline) || a.offline() {
		rctx, cancel := a.requestContext(ctx)
		defer cancel()
		if err := a.sessions.Reconnect(rctx); err != nil && !errors.Is(err, client.ErrNoSession) {
			a.logger.Warn(ctx, "reconnect failed", "error", err)
		}
	}
}

func (a *App) offline() bool {
	st, _, err := a.sessions.Current()
	return err == nil && st.Offline
}

// StartOnlineStatusWatcher pings the relay every interval and rejoins an
// offline session once the relay answers again.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
