package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/docproc/internal/client/client"
	"github.com/dmitrijs2005/docproc/internal/client/config"
	"github.com/dmitrijs2005/docproc/internal/client/metrics"
	"github.com/dmitrijs2005/docproc/internal/client/repositories/documents"
	"github.com/dmitrijs2005/docproc/internal/client/repositories/keyvalue"
	"github.com/dmitrijs2005/docproc/internal/client/services"
	"github.com/dmitrijs2005/docproc/internal/client/sources"
	"github.com/dmitrijs2005/docproc/internal/filex"
	"github.com/dmitrijs2005/docproc/internal/logging"
)

const databaseFile = "client.db"

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	api       client.Client
	session   *services.SessionStore
	documents *services.DocumentStore
	opener    sources.Opener
	metrics   *metrics.Recorder
	reader    *bufio.Reader
	out       io.Writer

	mu   sync.Mutex
	mode Mode

	unsubscribe []func()
	closers     []func() error
}

// NewApp opens the local database under cfg.DataDir and builds every layer
// on top of it. The session is restored from disk without touching the
// network.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel)

	flow, err := services.ParseAuthFlow(c.AuthFlow)
	if err != nil {
		return nil, err
	}

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, databaseFile))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	creds := keyvalue.NewCredentialStore(db)
	recorder := metrics.NewRecorder()
	api := client.NewHTTPClient(c.ServerBaseURL, creds,
		client.WithTimeout(c.RequestTimeout),
		client.WithObserver(recorder),
		client.WithLogger(logger.With("component", "http")),
	)

	session, err := services.NewSessionStore(ctx, api, creds, flow, logger.With("component", "session"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	docs := services.NewDocumentStore(api, documents.NewCache(db), logger.With("component", "documents"))

	router := sources.NewRouter(sources.Config{
		S3Region:     c.S3Region,
		S3Endpoint:   c.S3Endpoint,
		S3AccessKey:  c.S3AccessKey,
		S3SecretKey:  c.S3SecretKey,
		GCSEndpoint:  c.GCSEndpoint,
		GCSAnonymous: c.GCSAnonymous,
	})

	a := &App{
		config:    c,
		logger:    logger,
		api:       api,
		session:   session,
		documents: docs,
		opener:    router,
		metrics:   recorder,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		closers:   []func() error{router.Close, db.Close},
	}
	a.watchStores()
	return a, nil
}

// watchStores subscribes to both stores: session transitions are logged and
// an offline document list switches the app to offline mode.
func (a *App) watchStores() {
	a.unsubscribe = append(a.unsubscribe,
		a.session.Subscribe(func(s services.Session) {
			a.logger.Debug(context.Background(), "session changed", "state", s.State, "error", s.Error)
		}),
		a.documents.Subscribe(func(st services.DocumentState) {
			if st.Offline {
				a.setMode(ModeOffline)
			}
		}),
	)
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Error(ctx, "shutdown", "error", err)
		}
	}()
	a.Root(ctx)
}

// Close drops store subscriptions and releases the database and
// object-store clients.
func (a *App) Close() error {
	for _, cancel := range a.unsubscribe {
		cancel()
	}
	a.unsubscribe = nil

	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// mode between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

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
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
