package app

import (
	"context"
	"errors"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/bus"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/config"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/conn"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/directory"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/lock"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/logging"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/profile"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/roomview"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/tui"
)

// Params holds the resolved client identity passed to the fx module.
type Params struct {
	Username string
}

// Module returns the fx module for the chat client, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("wschat",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideDirectoryClient,
			providePoller,
			provideBinding,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	cfg, err := config.Load(profile.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return nil, err
	}
	// The command-line identity wins over the config file.
	cfg.Username = p.Username
	return cfg, nil
}

func provideLogger(p Params) (*zap.Logger, error) {
	if err := profile.EnsureDir(p.Username); err != nil {
		return nil, err
	}
	return logging.New(profile.LogPath(p.Username), p.Username)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring profile lock", zap.String("profile", p.Username))
	l, err := lock.Acquire(profile.Dir(p.Username))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideDirectoryClient(cfg *config.Config) *directory.Client {
	return directory.NewClient(cfg.APIBase)
}

func providePoller(client *directory.Client, b *bus.Bus, logger *zap.Logger) *directory.Poller {
	return directory.NewPoller(client, b, logger, directory.DefaultInterval)
}

func provideBinding(cfg *config.Config, b *bus.Bus, logger *zap.Logger) *roomview.Binding {
	return roomview.NewBinding(conn.Config{WSBase: cfg.WSBase}, b, logger)
}

func provideApp(p Params, b *bus.Bus, bd *roomview.Binding, client *directory.Client, logger *zap.Logger) *tui.App {
	return tui.NewApp(b, bd, client, p.Username, logger)
}

func registerLifecycle(lc fx.Lifecycle, bd *roomview.Binding, poller *directory.Poller, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			bd.Start(context.Background())
			poller.Start(context.Background())
			logger.Info("client started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			poller.Stop()
			bd.Close()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
