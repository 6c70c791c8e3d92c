package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"granja/internal/client/config"
	"granja/internal/client/services"
	"granja/internal/client/state"
	"granja/internal/client/store"
	"granja/internal/client/syncengine"
	"granja/internal/client/transport"
	"granja/internal/client/trigger"
	"granja/internal/logging"
)

// App wires the local store, the services and the sync machinery behind an
// interactive terminal session.
type App struct {
	config *config.Config
	log    logging.Logger

	engine *syncengine.Engine
	runner *trigger.Runner

	auth      *services.AuthService
	farm      *services.FarmService
	herd      *services.HerdService
	feeding   *services.FeedingService
	inventory *services.InventoryService
	health    *services.HealthService
	breeding  *services.BreedingService
	access    *services.AccessService

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	st := store.New(db)
	repo := state.NewSQLiteRepository(db)
	api := transport.New(c.ServerBaseURL, c.RequestTimeout, log)

	engine := syncengine.New(st, repo, api, api.Ping, log)
	runner := trigger.NewRunner(engine, api.Ping, c.SyncInterval, c.ProbeInterval, log)

	return &App{
		config:    c,
		log:       log,
		engine:    engine,
		runner:    runner,
		auth:      services.NewAuthService(api, repo, log),
		farm:      services.NewFarmService(st, log),
		herd:      services.NewHerdService(st, log),
		feeding:   services.NewFeedingService(st, log),
		inventory: services.NewInventoryService(st, log),
		health:    services.NewHealthService(st, log),
		breeding:  services.NewBreedingService(st, log),
		access:    services.NewAccessService(st, log),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

// Run starts the background sync schedule and hands the terminal to the
// REPL. It returns when the user exits.
func (a *App) Run(ctx context.Context) {
	a.runner.Start(ctx)
	defer a.runner.Stop()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.statusLine, scanner)
}

func (a *App) isLoggedIn() bool {
	in, err := a.auth.LoggedIn(context.Background())
	return err == nil && in
}
