package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dkravets/recipebook/internal/pkg/config"
	"github.com/dkravets/recipebook/internal/recipebook/api/server"
	"github.com/dkravets/recipebook/internal/recipebook/repository/catalogrepo"
	cr "github.com/dkravets/recipebook/internal/recipebook/repository/catalogrepo/postgres"
	"github.com/dkravets/recipebook/internal/recipebook/repository/imagestore/disk"
	"github.com/dkravets/recipebook/internal/recipebook/repository/recipecache/redis"
	rr "github.com/dkravets/recipebook/internal/recipebook/repository/reciperepo/postgres"
	ur "github.com/dkravets/recipebook/internal/recipebook/repository/userrepo/postgres"
	"github.com/dkravets/recipebook/internal/recipebook/services/authservice"
	"github.com/dkravets/recipebook/internal/recipebook/services/catalogservice"
	"github.com/dkravets/recipebook/internal/recipebook/services/recipeservice"
	"github.com/dkravets/recipebook/pkg/logger"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type RecipebookApp struct {
	s   Server
	lg  logger.Logger
	cfg config.Config
}

func New(ctx context.Context, cfg config.Config) (RecipebookApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return RecipebookApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	userRepo, err := ur.New(ctx, cfg.PostgresDB)
	if err != nil {
		return RecipebookApp{}, fmt.Errorf("postgres user repo initializing error: %w", err)
	}

	authService := authservice.New(userRepo, cfg.Auth)

	recipeRepo, err := rr.New(ctx, cfg.PostgresDB)
	if err != nil {
		return RecipebookApp{}, fmt.Errorf("postgres recipe repo initializing error: %w", err)
	}

	recipeCache, err := redis.New(ctx, cfg.RedisCache)
	if err != nil {
		return RecipebookApp{}, fmt.Errorf("redis recipe cache initializing error: %w", err)
	}

	images, err := disk.New(cfg.Storage)
	if err != nil {
		return RecipebookApp{}, fmt.Errorf("image store initializing error: %w", err)
	}

	recipeService := recipeservice.New(recipeRepo, recipeCache, images, cfg.Storage, lg)

	tagRepo, err := cr.New(ctx, cfg.PostgresDB, catalogrepo.Tags)
	if err != nil {
		return RecipebookApp{}, fmt.Errorf("postgres tag repo initializing error: %w", err)
	}

	ingredientRepo, err := cr.New(ctx, cfg.PostgresDB, catalogrepo.Ingredients)
	if err != nil {
		return RecipebookApp{}, fmt.Errorf("postgres ingredient repo initializing error: %w", err)
	}

	tagService := catalogservice.New(tagRepo)
	ingredientService := catalogservice.New(ingredientRepo)

	s := server.New(cfg.Server, authService, recipeService, tagService, ingredientService, lg)

	return RecipebookApp{
		s:   s,
		lg:  lg,
		cfg: cfg,
	}, nil
}

func (ra *RecipebookApp) Run(ctx context.Context) {
	ra.lg.Infof("STARTED SERVER ON %s", ra.cfg.Server.Addr)

	go func() {
		if err := ra.s.Start(ctx); err != nil {
			ra.lg.Errorf("server start error: %s", err.Error())
			ctx.Done()

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ra.Stop(ctxS); err != nil { //nolint:contextcheck
		ra.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (ra *RecipebookApp) Stop(ctx context.Context) error {
	if err := ra.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	ra.lg.Info("Shutdowned successfully")

	return nil
}
