package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthome/graphpress/auth"
	"github.com/arthome/graphpress/config"
	"github.com/arthome/graphpress/db"
	"github.com/arthome/graphpress/errors"
	"github.com/arthome/graphpress/graph"
	"github.com/arthome/graphpress/logger"
	"github.com/arthome/graphpress/mutation"
	"github.com/arthome/graphpress/pubsub"
	"github.com/arthome/graphpress/server"
	"github.com/arthome/graphpress/store"
)

// ServeCmd starts the GraphPress server.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphPress server",
	Long: `Launch the GraphPress HTTP/WebSocket server. Queries and mutations
are served as JSON endpoints under /api, subscriptions as WebSocket
streams under /subscriptions.`,
	RunE: runServe,
}

var (
	serveConfigPath string
	serveDemo       bool
)

func init() {
	ServeCmd.Flags().StringVar(&serveConfigPath, "config", "", "Config file path (default: graphpress.toml in cwd)")
	ServeCmd.Flags().BoolVar(&serveDemo, "demo", false, "Seed demo fixtures at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	if err := logger.Initialize(cfg.Log.JSON); err != nil {
		return errors.Wrap(err, "initialize logger")
	}
	defer logger.Sync()
	log := logger.Logger

	entityStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer entityStore.Close()

	if serveDemo || cfg.Store.Demo {
		if err := store.Seed(cmd.Context(), entityStore); err != nil {
			return errors.Wrap(err, "seed demo fixtures")
		}
		log.Infow("Demo fixtures seeded")
	}

	authSvc, err := auth.NewService(&cfg.Auth)
	if err != nil {
		return err
	}

	router := pubsub.NewRouter(log)
	resolver := graph.NewResolver(entityStore, authSvc, log)
	mutations := mutation.NewService(entityStore, authSvc, router, log)
	srv := server.New(cfg.Server, resolver, mutations, router, log)

	// Hot reload of runtime tunables when a config file is present.
	if path := configFilePath(); path != "" {
		watcher, err := config.NewWatcher(path)
		if err != nil {
			log.Warnw("Config watcher unavailable", logger.FieldError, err)
		} else {
			watcher.OnReload(func(next *config.Config) error {
				srv.SetMutationRate(next.Server.MutationRatePerSecond, next.Server.MutationRateBurst)
				return nil
			})
			watcher.Start()
			defer watcher.Stop()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

// loadConfig loads from the --config path when given, otherwise from the
// default cascade (graphpress.toml in cwd, GRAPHPRESS_* env, defaults).
func loadConfig() (*config.Config, error) {
	if serveConfigPath != "" {
		return config.LoadFromFile(serveConfigPath)
	}
	return config.Load()
}

// configFilePath returns the config file to watch, empty when running on
// env and defaults alone.
func configFilePath() string {
	if serveConfigPath != "" {
		return serveConfigPath
	}
	if _, err := os.Stat("graphpress.toml"); err == nil {
		return "graphpress.toml"
	}
	return ""
}

// openStore creates the entity store named by the config driver.
func openStore(cfg *config.Config) (store.EntityStore, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	case config.DriverSQLite:
		sqlDB, err := db.Open(cfg.Store.Path, logger.Logger)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(sqlDB, logger.Logger); err != nil {
			sqlDB.Close()
			return nil, err
		}
		return store.NewSQLiteStore(sqlDB), nil
	default:
		return nil, errors.NewValidationError("unknown store driver %q", cfg.Store.Driver)
	}
}
