package catalogservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/internal/recipebook/repository/catalogrepo"
	"github.com/dkravets/recipebook/internal/recipebook/services/validate"
)

const maxNameLen = 255

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type Repository interface {
	GetOrCreate(ctx context.Context, userID int64, name string) (models.CatalogItem, error)
	List(ctx context.Context, userID int64, assignedOnly bool) ([]models.CatalogItem, error)
	Get(ctx context.Context, userID, id int64) (models.CatalogItem, error)
	Rename(ctx context.Context, userID, id int64, name string) (models.CatalogItem, error)
	Delete(ctx context.Context, userID, id int64) error
	Shutdown(ctx context.Context) error
}

// CatalogService implements the tag and ingredient operations; one
// instance per entity, backed by a repo bound to the right table.
type CatalogService struct {
	repo Repository
}

func New(repo Repository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

func (cs *CatalogService) Create(ctx context.Context, userID int64, req ItemRequest) (models.CatalogItem, error) {
	if err := validateName(req.Name); err != nil {
		return models.CatalogItem{}, err
	}

	item, err := cs.repo.GetOrCreate(ctx, userID, req.Name)
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("get or create error: %w", err)
	}

	return item, nil
}

func (cs *CatalogService) List(ctx context.Context, userID int64, req ListRequest) ([]models.CatalogItem, error) {
	items, err := cs.repo.List(ctx, userID, req.AssignedOnly)
	if err != nil {
		return nil, fmt.Errorf("list error: %w", err)
	}

	return items, nil
}

func (cs *CatalogService) Get(ctx context.Context, userID, id int64) (models.CatalogItem, error) {
	item, err := cs.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrNotFound) {
			return models.CatalogItem{}, ErrNotFound
		}

		return models.CatalogItem{}, fmt.Errorf("get error: %w", err)
	}

	return item, nil
}

func (cs *CatalogService) Update(ctx context.Context, userID, id int64, req ItemRequest) (models.CatalogItem, error) {
	if err := validateName(req.Name); err != nil {
		return models.CatalogItem{}, err
	}

	item, err := cs.repo.Rename(ctx, userID, id, req.Name)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrNotFound) {
			return models.CatalogItem{}, ErrNotFound
		}

		if errors.Is(err, catalogrepo.ErrAlreadyExists) {
			return models.CatalogItem{}, ErrAlreadyExists
		}

		return models.CatalogItem{}, fmt.Errorf("rename error: %w", err)
	}

	return item, nil
}

func (cs *CatalogService) Delete(ctx context.Context, userID, id int64) error {
	if err := cs.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, catalogrepo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete error: %w", err)
	}

	return nil
}

func (cs *CatalogService) Shutdown(ctx context.Context) error {
	if err := cs.repo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown catalog repo error: %w", err)
	}

	return nil
}

func validateName(name string) error {
	ve := validate.Errors{}

	if name == "" {
		ve.Add("name", "must not be empty")
	}

	if len(name) > maxNameLen {
		ve.Add("name", fmt.Sprintf("must be at most %d characters", maxNameLen))
	}

	return ve.Err()
}
