package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkravets/recipebook/internal/pkg/config"
	"github.com/dkravets/recipebook/internal/pkg/redistools"
	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/internal/recipebook/repository/reciperepo"
	"github.com/redis/go-redis/v9"
)

// RecipeCache keeps detail representations of recently read recipes.
// Entries expire after cfg.ExpTime and are dropped on any write to
// the recipe.
type RecipeCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(ctx context.Context, cfg config.RedisCache) (RecipeCache, error) {
	rdb := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := redistools.Connect(ctx, rdb); err != nil {
		return RecipeCache{}, fmt.Errorf("connect error: %w", err)
	}

	return RecipeCache{
		rdb:     rdb,
		expTime: cfg.ExpTime,
	}, nil
}

type cachedRecipe struct {
	models.Recipe
	UserID int64 `json:"user_id"` //nolint:tagliatelle
}

func (rc RecipeCache) SetRecipe(ctx context.Context, r models.Recipe) error {
	recipeJSON, err := json.Marshal(cachedRecipe{Recipe: r, UserID: r.UserID})
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	_, err = rc.rdb.Set(ctx, fmt.Sprintf("recipe:%d", r.ID), recipeJSON, rc.expTime).Result() //nolint:perfsprint
	if err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

func (rc RecipeCache) GetRecipe(ctx context.Context, id int64) (models.Recipe, error) {
	recipeJSON, err := rc.rdb.Get(ctx, fmt.Sprintf("recipe:%d", id)).Result() //nolint:perfsprint
	if errors.Is(err, redis.Nil) {
		return models.Recipe{}, reciperepo.ErrNotFound
	} else if err != nil {
		return models.Recipe{}, fmt.Errorf("get error: %w", err)
	}

	var cached cachedRecipe

	if err := json.Unmarshal([]byte(recipeJSON), &cached); err != nil {
		return models.Recipe{}, fmt.Errorf("unmarshal error: %w", err)
	}

	r := cached.Recipe
	r.UserID = cached.UserID

	return r, nil
}

func (rc RecipeCache) DeleteRecipe(ctx context.Context, id int64) error {
	if _, err := rc.rdb.Del(ctx, fmt.Sprintf("recipe:%d", id)).Result(); err != nil { //nolint:perfsprint
		return fmt.Errorf("del error: %w", err)
	}

	return nil
}
