package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/controllers"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/repositories"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/routes"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/services"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/config"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/cache"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/database"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/event"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/logger"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/metrics"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/migration"
)

func bootConfig() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// bootLogging loads config and installs the process logger. The returned
// func flushes remote log sinks.
func bootLogging(ctx context.Context) (func(), error) {
	if err := bootConfig(); err != nil {
		return func() {}, err
	}
	return logger.Setup(ctx)
}

// usersStore is the repository chosen by DB_DRIVER and CACHE_DRIVER, plus
// whatever must be closed with it.
type usersStore struct {
	repo    repositories.UserRepository
	closers []func() error
}

func newUsersStore() *usersStore { return &usersStore{} }

func (s *usersStore) memory() repositories.UserRepository {
	s.repo = repositories.NewMemoryUserRepository()
	return s.repo
}

func (s *usersStore) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}

// openUsersStore builds the user repository. SQL drivers are migrated first
// when migrate is set; CACHE_DRIVER=redis puts a read-through cache in front.
func openUsersStore(ctx context.Context, migrate bool) (*usersStore, error) {
	s := newUsersStore()

	driver := config.DatabaseDriver()
	if driver == "memory" {
		s.memory()
	} else {
		db, err := database.Open(driver, config.DatabaseDSN())
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() error { return database.Close(db) })

		if migrate {
			if _, err := migration.New(db, io.Discard).Run(); err != nil {
				s.Close()
				return nil, err
			}
		}
		s.repo = repositories.NewGormUserRepository(db)
	}
	logger.Info("user store ready", "driver", driver)

	if config.CacheDriver() == "redis" {
		c, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword(), config.AppName()+":")
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, c.Close)
		s.repo = repositories.NewCachedUserRepository(s.repo, c, config.CacheTTL(), logger.L)
		logger.Info("user cache enabled", "addr", config.RedisAddr(), "ttl", config.CacheTTL().String())
	}

	return s, nil
}

func usersModule(repo repositories.UserRepository, events *event.Dispatcher) *routes.UsersRoutes {
	svc := services.NewUsersService(repo, services.WithEvents(events))
	return routes.NewUsersRoutes(controllers.NewUsersController(svc))
}

// auditEvents logs and counts every user write.
func auditEvents(log *slog.Logger) *event.Dispatcher {
	d := event.New()
	for _, name := range []string{services.EventUserCreated, services.EventUserUpdated, services.EventUserDeleted} {
		name := name // per-iteration copy (module targets go 1.21)
		d.Listen(name, func(payload interface{}) {
			ev := payload.(services.UserEvent)
			log.Info("user event", "event", name, "user_id", ev.ID)
			metrics.UserWrite(name)
		})
	}
	return d
}
