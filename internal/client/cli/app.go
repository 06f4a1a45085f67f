package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/docassist/internal/client/client"
	"github.com/dmitrijs2005/docassist/internal/client/config"
	"github.com/dmitrijs2005/docassist/internal/client/credentials"
	"github.com/dmitrijs2005/docassist/internal/client/events"
	"github.com/dmitrijs2005/docassist/internal/client/guard"
	"github.com/dmitrijs2005/docassist/internal/client/services"
	"github.com/dmitrijs2005/docassist/internal/client/storage"
	"github.com/dmitrijs2005/docassist/internal/cryptox"
	"github.com/dmitrijs2005/docassist/internal/filex"
	"github.com/dmitrijs2005/docassist/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	closers []func() error

	auth  services.AuthService
	docs  services.DocumentService
	chat  services.ChatService
	guard *guard.Guard
	hub   *events.Hub

	reader *bufio.Reader

	outMu sync.Mutex
	out   io.Writer

	mu     sync.Mutex
	path   string
	params map[string]string
}

// NewApp opens the local database and builds the services on top of it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, closeLog, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("database dir: %w", err)
	}
	db, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	var store *credentials.SQLiteStore
	if c.CredentialKeyFile != "" {
		sealer, err := loadSealer(c.CredentialKeyFile)
		if err != nil {
			_ = db.Close()
			_ = closeLog()
			return nil, err
		}
		store = credentials.NewSQLiteStore(db, sealer)
	} else {
		store = credentials.NewSQLiteStore(db, nil)
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, credentials.TokenSource(store))

	app := newApp(c, logger, store, api, os.Stdin, os.Stdout)
	app.closers = append(app.closers, db.Close, closeLog)
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, store credentials.Store, api client.Client, in io.Reader, out io.Writer) *App {
	hub := events.New()
	auth := services.NewAuthService(api, store, hub, logger)

	a := &App{
		config: c,
		logger: logger,
		auth:   auth,
		docs:   services.NewDocumentService(api, hub, logger, c.MaxUploadBytes),
		chat:   services.NewChatService(api, hub, logger),
		guard:  guard.New(auth),
		hub:    hub,
		reader: bufio.NewReader(in),
		out:    out,
	}
	hub.Subscribe(a.onEvent)
	return a
}

func newLogger(c *config.Config) (logging.Logger, func() error, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if c.LogFile == "" {
		return logging.NewTextLogger(os.Stderr, level), func() error { return nil }, nil
	}
	if err := filex.EnsureParentDir(c.LogFile); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	l, closeFn := logging.NewFileLogger(c.LogFile, level)
	return l, closeFn, nil
}

func loadSealer(path string) (*cryptox.Sealer, error) {
	key, err := cryptox.LoadOrCreateKey(path)
	if err != nil {
		return nil, fmt.Errorf("credential key: %w", err)
	}
	sealer, err := cryptox.NewSealer(key)
	if err != nil {
		return nil, fmt.Errorf("credential key: %w", err)
	}
	return sealer, nil
}

// Run restores the stored session, starts the status poller and blocks in
// the REPL until the user exits or in reaches EOF.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.printf("Welcome to DocAssist CLI (type 'help' for commands)\n")

	if err := a.auth.LoadCurrentUser(ctx); err != nil {
		a.printf("Stored session is no longer valid: %s\n", describe(err))
	}
	if err := a.enter(ctx, ""); err != nil {
		a.printf("Error: %s\n", describe(err))
	}

	var wg sync.WaitGroup
	if a.config.StatusPollInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = a.docs.WatchProcessing(ctx, a.config.StatusPollInterval)
		}()
	}

	runREPL(ctx, a, a.getStatus, a.reader)

	cancel()
	wg.Wait()
	return nil
}

// Close releases the database and flushes the log file.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.guard.CanActivate(ctx)
}

func (a *App) onEvent(e events.Event) {
	switch e.Kind {
	case events.AuthChanged:
		// Signed out, by the user or by a failed identity load: drop what
		// the previous session could see.
		if !a.auth.IsAuthenticated(context.Background()) {
			a.docs.Reset()
			a.chat.Reset()
		}
	case events.Navigate:
		a.setPath(e.Path, nil)
		a.printf("-> %s\n", e.Path)
	}
}

func (a *App) setPath(path string, params map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.path, a.params = path, params
}

func (a *App) currentPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

// currentDocumentID is the document of the detail view, if that is where
// the user is.
func (a *App) currentDocumentID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.params == nil {
		return ""
	}
	return a.params["id"]
}

func (a *App) getStatus() string {
	var parts []string
	if u, ok := a.auth.User(); ok {
		parts = append(parts, u.Email)
	}
	if p := a.currentPath(); p != "" {
		parts = append(parts, p)
	}
	if docs := a.docs.Documents(); len(docs) > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d ready", a.docs.ReadyCount(), len(docs)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}
