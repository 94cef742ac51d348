package bootstrap

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Valentin39220/bini-crm/config"
	"github.com/Valentin39220/bini-crm/internal/prospects/repository"
	"github.com/Valentin39220/bini-crm/internal/prospects/service"
)

// App bundles what both binaries need after start-up.
type App struct {
	Repo    *repository.ProspectRepository
	Service *service.ProspectService
	closer  io.Closer
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// OpenApp connects storage, hydrates the collection and builds the service.
func OpenApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}

	slot, closer, err := OpenSlot(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repoOpts := append(RepositoryOptions(cfg.Storage), repository.WithLogger(log.Named("repository")))
	repo := repository.NewProspectRepository(slot, cfg.Storage.SlotKey, repoOpts...)

	svc, err := service.Open(ctx, repo,
		service.WithClock(func() time.Time { return time.Now().In(loc) }),
		service.WithLogger(log.Named("prospects")),
	)
	if err != nil {
		closer.Close()
		return nil, err
	}

	log.Info("prospects loaded",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("slot", repo.Key()),
		zap.Int("count", len(svc.List())))

	return &App{Repo: repo, Service: svc, closer: closer}, nil
}
