package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/sprig-core/internal/dependencies/clock"
	"github.com/mcoot/sprig-core/internal/dependencies/random"
	"github.com/mcoot/sprig-core/internal/mail"
	"github.com/mcoot/sprig-core/internal/services/games"
	"github.com/mcoot/sprig-core/internal/services/identity"
	"github.com/mcoot/sprig-core/internal/services/logincode"
	"github.com/mcoot/sprig-core/internal/services/names"
	"github.com/mcoot/sprig-core/internal/services/session"
	"github.com/mcoot/sprig-core/internal/services/snapshot"
	"github.com/mcoot/sprig-core/internal/storage"
	"github.com/mcoot/sprig-core/internal/storage/memory"
	mongostorage "github.com/mcoot/sprig-core/internal/storage/mongo"
	redisstorage "github.com/mcoot/sprig-core/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeMongo  = "mongo"
)

// App contains all wired application components.
// It is built once at process start and passed to whatever needs it.
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Mailer mail.Mailer

	// Services
	Identity   *identity.Service
	LoginCodes *logincode.Service
	Sessions   *session.Manager
	Games      *games.Repository
	Snapshots  *snapshot.Service

	closeOnce sync.Once
	closeErr  error
	closeFn   func(ctx context.Context) error
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "mongo")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// MongoConfig holds MongoDB connection settings (required if StorageType is "mongo")
	MongoConfig *mongostorage.Config
	// LoginCodeConfig controls login code verification (optional)
	LoginCodeConfig logincode.Config
	// SESConfig enables mailing login codes through SES (optional)
	// If nil, codes are written to the log
	SESConfig *mail.SESConfig
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	closeFn := func(context.Context) error { return nil }
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisCfg := *cfg.RedisConfig
		if cfg.LoginCodeConfig.CodeTTL > 0 {
			redisCfg.LoginCodeTTL = cfg.LoginCodeConfig.CodeTTL
		}
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closeFn = func(context.Context) error { return redisStore.Close() }
	case StorageTypeMongo:
		if cfg.MongoConfig == nil {
			return nil, errors.New("MongoConfig required when StorageType is mongo")
		}
		mongoStore, err := mongostorage.New(ctx, *cfg.MongoConfig)
		if err != nil {
			return nil, err
		}
		store = mongoStore
		closeFn = mongoStore.Close
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'mongo'", storageType)
	}

	var mailer mail.Mailer = mail.NewLogMailer(logger)
	if cfg.SESConfig != nil {
		sesMailer, err := mail.NewSESMailer(ctx, *cfg.SESConfig, logger)
		if err != nil {
			_ = closeFn(ctx)
			return nil, err
		}
		mailer = sesMailer
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, mailer, cfg.LoginCodeConfig, logger)
	app.closeFn = closeFn
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	mailer mail.Mailer,
	loginCodeCfg logincode.Config,
	logger *slog.Logger,
) *App {
	// Create services
	identityService := identity.New(store, clk, logger)
	loginCodeService := logincode.New(store, clk, rnd, mailer, loginCodeCfg, logger)
	sessionManager := session.NewManager(store, identityService, clk, logger)
	gameRepository := games.NewRepository(store, names.NewWordGenerator(rnd), clk, logger)
	snapshotService := snapshot.New(store, identityService, gameRepository, clk, logger)

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		Mailer:     mailer,
		Identity:   identityService,
		LoginCodes: loginCodeService,
		Sessions:   sessionManager,
		Games:      gameRepository,
		Snapshots:  snapshotService,
		closeFn:    func(context.Context) error { return nil },
	}
}

// Close releases the storage connection. Calls after the first return the
// first result.
func (a *App) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.closeErr = a.closeFn(ctx)
	})
	return a.closeErr
}
