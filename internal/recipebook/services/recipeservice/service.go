package recipeservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoders for upload validation
	_ "image/jpeg" //nolint:revive
	_ "image/png"  //nolint:revive
	"strings"

	"github.com/dkravets/recipebook/internal/pkg/config"
	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/internal/recipebook/repository/reciperepo"
	"github.com/dkravets/recipebook/internal/recipebook/services/validate"
	"github.com/dkravets/recipebook/pkg/logger"
	_ "golang.org/x/image/webp" // register decoders for upload validation
)

const (
	maxTitleLen       = 255
	maxDescriptionLen = 255
	maxLinkLen        = 255
	maxNameLen        = 255
	maxPriceDigits    = 5
	maxPriceFraction  = 2
)

var ErrNotFound = errors.New("recipe not found")

type Repository interface {
	CreateRecipe(ctx context.Context, r models.Recipe, tags, ingredients []string) (models.Recipe, error)
	GetRecipe(ctx context.Context, userID, id int64) (models.Recipe, error)
	ListRecipes(ctx context.Context, userID int64, filter reciperepo.ListFilter) ([]models.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, id int64, upd reciperepo.RecipeUpdate) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, id int64) error
	SetRecipeImage(ctx context.Context, userID, id int64, path string) error
	Shutdown(ctx context.Context) error
}

type Cache interface {
	GetRecipe(ctx context.Context, id int64) (models.Recipe, error)
	SetRecipe(ctx context.Context, r models.Recipe) error
	DeleteRecipe(ctx context.Context, id int64) error
}

type ImageStore interface {
	Save(data []byte, ext string) (string, error)
	Remove(path string) error
}

type RecipeService struct {
	recipeRepo  Repository
	recipeCache Cache
	images      ImageStore
	maxUpload   int64
	lg          logger.Logger
}

func New(recipeRepo Repository, recipeCache Cache, images ImageStore,
	cfg config.Storage, lg logger.Logger,
) *RecipeService {
	return &RecipeService{
		recipeRepo:  recipeRepo,
		recipeCache: recipeCache,
		images:      images,
		maxUpload:   cfg.MaxUploadBytes,
		lg:          lg,
	}
}

// Create stores a new recipe owned by userID. Nested tag and
// ingredient names are reconciled get-or-create under the same owner,
// whatever the payload may have claimed about ownership.
func (rs *RecipeService) Create(ctx context.Context, userID int64, req CreateRecipeRequest) (models.Recipe, error) {
	ve := validate.Errors{}

	validateTitle(ve, req.Title)
	validateScalars(ve, req.Description, req.TimeMinutes, string(req.Price), req.Link)
	validateItems(ve, "tags", req.Tags)
	validateItems(ve, "ingredients", req.Ingredients)

	if err := ve.Err(); err != nil {
		return models.Recipe{}, err
	}

	r := models.Recipe{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: req.TimeMinutes,
		Price:       string(req.Price),
		Link:        req.Link,
	}

	created, err := rs.recipeRepo.CreateRecipe(ctx, r, itemNames(req.Tags), itemNames(req.Ingredients))
	if err != nil {
		return models.Recipe{}, fmt.Errorf("create recipe error: %w", err)
	}

	if err := rs.recipeCache.SetRecipe(ctx, created); err != nil {
		rs.lg.Errorf("set recipe cache error: %s", err.Error())
	}

	return created, nil
}

func (rs *RecipeService) List(ctx context.Context, userID int64, req ListRecipesRequest) ([]models.Recipe, error) {
	filter := reciperepo.ListFilter{
		TagIDs:        req.TagIDs,
		IngredientIDs: req.IngredientIDs,
	}

	recipes, err := rs.recipeRepo.ListRecipes(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipes error: %w", err)
	}

	return recipes, nil
}

// Get returns the detail representation. A cache hit is only served
// when the cached row belongs to the caller.
func (rs *RecipeService) Get(ctx context.Context, userID, id int64) (models.Recipe, error) {
	cached, err := rs.recipeCache.GetRecipe(ctx, id)
	if err == nil && cached.UserID == userID {
		return cached, nil
	}

	r, err := rs.recipeRepo.GetRecipe(ctx, userID, id)
	if err != nil {
		if errors.Is(err, reciperepo.ErrNotFound) {
			return models.Recipe{}, ErrNotFound
		}

		return models.Recipe{}, fmt.Errorf("get recipe error: %w", err)
	}

	if err := rs.recipeCache.SetRecipe(ctx, r); err != nil {
		rs.lg.Errorf("set recipe cache error: %s", err.Error())
	}

	return r, nil
}

func (rs *RecipeService) Update(ctx context.Context, //nolint:cyclop
	userID, id int64, req UpdateRecipeRequest,
) (models.Recipe, error) {
	ve := validate.Errors{}

	if req.Title != nil {
		validateTitle(ve, *req.Title)
	}

	if req.Description != nil && len(*req.Description) > maxDescriptionLen {
		ve.Add("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLen))
	}

	if req.TimeMinutes != nil && *req.TimeMinutes < 0 {
		ve.Add("time_minutes", "must not be negative")
	}

	if req.Price != nil && !validPrice(string(*req.Price)) {
		ve.Add("price", priceMessage)
	}

	if req.Link != nil && len(*req.Link) > maxLinkLen {
		ve.Add("link", fmt.Sprintf("must be at most %d characters", maxLinkLen))
	}

	if req.Tags != nil {
		validateItems(ve, "tags", *req.Tags)
	}

	if req.Ingredients != nil {
		validateItems(ve, "ingredients", *req.Ingredients)
	}

	if err := ve.Err(); err != nil {
		return models.Recipe{}, err
	}

	upd := reciperepo.RecipeUpdate{
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: req.TimeMinutes,
		Link:        req.Link,
	}

	if req.Price != nil {
		price := string(*req.Price)
		upd.Price = &price
	}

	if req.Tags != nil {
		names := itemNames(*req.Tags)
		upd.Tags = &names
	}

	if req.Ingredients != nil {
		names := itemNames(*req.Ingredients)
		upd.Ingredients = &names
	}

	r, err := rs.recipeRepo.UpdateRecipe(ctx, userID, id, upd)
	if err != nil {
		if errors.Is(err, reciperepo.ErrNotFound) {
			return models.Recipe{}, ErrNotFound
		}

		return models.Recipe{}, fmt.Errorf("update recipe error: %w", err)
	}

	if err := rs.recipeCache.SetRecipe(ctx, r); err != nil {
		rs.lg.Errorf("set recipe cache error: %s", err.Error())
	}

	return r, nil
}

func (rs *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	if err := rs.recipeRepo.DeleteRecipe(ctx, userID, id); err != nil {
		if errors.Is(err, reciperepo.ErrNotFound) {
			return ErrNotFound
		}

		return fmt.Errorf("delete recipe error: %w", err)
	}

	if err := rs.recipeCache.DeleteRecipe(ctx, id); err != nil {
		rs.lg.Errorf("delete recipe cache error: %s", err.Error())
	}

	return nil
}

// AttachImage validates that the payload decodes as an image, stores
// the bytes, and records the path on the caller's recipe. Invalid
// payloads are rejected before anything is written.
func (rs *RecipeService) AttachImage(ctx context.Context, userID, id int64, data []byte) (models.Recipe, error) {
	ve := validate.Errors{}

	if rs.maxUpload > 0 && int64(len(data)) > rs.maxUpload {
		ve.Add("image", fmt.Sprintf("must be at most %d bytes", rs.maxUpload))

		return models.Recipe{}, ve
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		ve.Add("image", "must be a valid image")

		return models.Recipe{}, ve
	}

	r, err := rs.recipeRepo.GetRecipe(ctx, userID, id)
	if err != nil {
		if errors.Is(err, reciperepo.ErrNotFound) {
			return models.Recipe{}, ErrNotFound
		}

		return models.Recipe{}, fmt.Errorf("get recipe error: %w", err)
	}

	path, err := rs.images.Save(data, formatExt(format))
	if err != nil {
		return models.Recipe{}, fmt.Errorf("save image error: %w", err)
	}

	if err := rs.recipeRepo.SetRecipeImage(ctx, userID, id, path); err != nil {
		if errRm := rs.images.Remove(path); errRm != nil {
			rs.lg.Errorf("remove image error: %s", errRm.Error())
		}

		if errors.Is(err, reciperepo.ErrNotFound) {
			return models.Recipe{}, ErrNotFound
		}

		return models.Recipe{}, fmt.Errorf("set recipe image error: %w", err)
	}

	if r.Image != "" {
		if err := rs.images.Remove(r.Image); err != nil {
			rs.lg.Errorf("remove old image error: %s", err.Error())
		}
	}

	if err := rs.recipeCache.DeleteRecipe(ctx, id); err != nil {
		rs.lg.Errorf("delete recipe cache error: %s", err.Error())
	}

	r.Image = path

	return r, nil
}

func (rs *RecipeService) Shutdown(ctx context.Context) error {
	if err := rs.recipeRepo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown recipe repo error: %w", err)
	}

	return nil
}

const priceMessage = "must be a decimal with at most 5 digits and 2 decimal places"

func validateTitle(ve validate.Errors, title string) {
	if title == "" {
		ve.Add("title", "must not be empty")
	}

	if len(title) > maxTitleLen {
		ve.Add("title", fmt.Sprintf("must be at most %d characters", maxTitleLen))
	}
}

func validateScalars(ve validate.Errors, description string, timeMinutes int, price, link string) {
	if len(description) > maxDescriptionLen {
		ve.Add("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLen))
	}

	if timeMinutes < 0 {
		ve.Add("time_minutes", "must not be negative")
	}

	if !validPrice(price) {
		ve.Add("price", priceMessage)
	}

	if len(link) > maxLinkLen {
		ve.Add("link", fmt.Sprintf("must be at most %d characters", maxLinkLen))
	}
}

func validateItems(ve validate.Errors, field string, items []ItemInput) {
	for _, item := range items {
		if item.Name == "" {
			ve.Add(field, "name must not be empty")

			return
		}

		if len(item.Name) > maxNameLen {
			ve.Add(field, fmt.Sprintf("name must be at most %d characters", maxNameLen))

			return
		}
	}
}

func itemNames(items []ItemInput) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}

	return names
}

// validPrice checks a non-negative fixed-point decimal: at most 5
// digits total, at most 2 after the point.
func validPrice(s string) bool {
	if s == "" {
		return false
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	if intPart == "" && (!hasFrac || fracPart == "") {
		return false
	}

	// NUMERIC(5,2) leaves at most 3 digits before the point.
	if len(intPart) > maxPriceDigits-maxPriceFraction {
		return false
	}

	digits := 0

	for _, r := range intPart {
		if r < '0' || r > '9' {
			return false
		}

		digits++
	}

	if hasFrac {
		if len(fracPart) > maxPriceFraction {
			return false
		}

		for _, r := range fracPart {
			if r < '0' || r > '9' {
				return false
			}

			digits++
		}
	}

	return digits > 0
}

func formatExt(format string) string {
	if format == "jpeg" {
		return "jpg"
	}

	return format
}
