package stub

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/ananyak/chatterm/internal/lock"
	"github.com/ananyak/chatterm/internal/logging"
	"github.com/ananyak/chatterm/internal/session"
	"github.com/ananyak/chatterm/internal/stub/store"
)

// Params holds the resolved configuration passed to the fx module.
type Params struct {
	SessionName string
	Addr        string
}

// Module returns the fx module for the stub backend, composing all
// providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("stub",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideLock,
			provideStore,
			provideHandler,
			provideServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(session.StubLogPath(p.SessionName), p.SessionName)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	logger.Info("acquiring data dir lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(session.Dir(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("data dir lock acquired")
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	dbPath := session.StubDBPath(p.SessionName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideHandler(db *store.DB, logger *zap.Logger) *Handler {
	return NewHandler(db, logger)
}

func provideServer(p Params, h *Handler, logger *zap.Logger) *Server {
	return NewServer(p.Addr, h, logger)
}

func registerLifecycle(lc fx.Lifecycle, srv *Server, lk *lock.Lock, db *store.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.Stop(ctx)
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("stub backend stopped")
			return nil
		},
	})
}
