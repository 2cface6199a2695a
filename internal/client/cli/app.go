package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/client"
	"github.com/dmitrijs2005/gophtimeline/internal/client/config"
	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/client/repositories/slots"
	"github.com/dmitrijs2005/gophtimeline/internal/client/services"
	"github.com/dmitrijs2005/gophtimeline/internal/client/wizard"
	"github.com/dmitrijs2005/gophtimeline/internal/filex"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// timelineService is the part of services.TimelineService the REPL drives.
type timelineService interface {
	List(ctx context.Context, online bool) ([]models.Milestone, error)
	Get(ctx context.Context, online bool, id string) (models.Milestone, error)
	Delete(ctx context.Context, online bool, id string) error
	OpenComposer(ctx context.Context, online bool, existing *models.Milestone) *wizard.Controller
}

type App struct {
	config      *config.Config
	authService services.AuthService
	timelines   timelineService
	log         logging.Logger
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer

	mu       sync.RWMutex
	mode     Mode
	userName string
}

// NewApp opens the local database under c.DataDir and wires the services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, "timeline.db"))
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(apiClient, db)
	ts := services.NewTimelineService(apiClient, slots.NewSQLiteRepository(db), services.TimelineSettings{
		Profile:           c.Profile,
		PeopleEncoding:    c.PeopleEncoding,
		UploadConcurrency: c.UploadConcurrency,
		SearchDebounce:    c.SearchDebounce,
	}, log)

	return &App{
		config:      c,
		authService: as,
		timelines:   ts,
		log:         log.With("module", "cli"),
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         newLockedWriter(os.Stdout),
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", mode)
	}
}

func (a *App) online() bool {
	return a.Mode() == ModeOnline
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userName != ""
}

// Run blocks in the REPL until the user exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.authService.Close(ctx)
		if a.db != nil {
			_ = a.db.Close()
		}
	}()
	a.Root(ctx)
}

// StartOnlineStatusWatcher pings the gateway every interval and flips
// between online and offline mode. A disabled session stays disabled.
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

func (a *App) checkOnline(ctx context.Context) {
	if a.Mode() == ModeDisabled {
		return
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
	} else if a.authService.HasSession() {
		a.setMode(ModeOnline)
	}
}
