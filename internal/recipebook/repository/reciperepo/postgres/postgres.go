package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/dkravets/recipebook/internal/pkg/config"
	"github.com/dkravets/recipebook/internal/pkg/pgtools"
	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/internal/recipebook/repository/catalogrepo"
	"github.com/dkravets/recipebook/internal/recipebook/repository/reciperepo"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RecipesPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (RecipesPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg))
	if err != nil {
		return RecipesPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg); err != nil {
		return RecipesPostgresRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return RecipesPostgresRepo{
		db: db,
	}, nil
}

// CreateRecipe inserts the recipe and reconciles its nested tag and
// ingredient names under the recipe's owner, all in one transaction.
func (rr RecipesPostgresRepo) CreateRecipe(ctx context.Context, //nolint:nonamedreturns
	r models.Recipe, tags, ingredients []string,
) (created models.Recipe, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create recipe")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("recipes").
		Columns("user_id", "title", "description", "time_minutes", "price", "link").
		Values(r.UserID, r.Title, r.Description, r.TimeMinutes, r.Price, r.Link).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return models.Recipe{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&r.ID); err != nil {
		return models.Recipe{}, fmt.Errorf("scan error: %w", err)
	}

	r.Tags, err = rr.reconcile(ctx, tx, catalogrepo.Tags, r.UserID, r.ID, tags)
	if err != nil {
		return models.Recipe{}, err
	}

	r.Ingredients, err = rr.reconcile(ctx, tx, catalogrepo.Ingredients, r.UserID, r.ID, ingredients)
	if err != nil {
		return models.Recipe{}, err
	}

	return r, nil
}

func (rr RecipesPostgresRepo) GetRecipe(ctx context.Context, //nolint:nonamedreturns
	userID, id int64,
) (r models.Recipe, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get recipe")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "user_id", "title", "description",
		"time_minutes", "price::text", "link", "image").
		From("recipes").
		Where(squirrel.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return models.Recipe{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(
		&r.ID, &r.UserID, &r.Title, &r.Description,
		&r.TimeMinutes, &r.Price, &r.Link, &r.Image); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = reciperepo.ErrNotFound

			return models.Recipe{}, err
		}

		return models.Recipe{}, fmt.Errorf("scan error: %w", err)
	}

	if err = rr.loadItems(ctx, tx, []*models.Recipe{&r}); err != nil {
		return models.Recipe{}, err
	}

	return r, nil
}

func (rr RecipesPostgresRepo) ListRecipes(ctx context.Context, //nolint:nonamedreturns
	userID int64, filter reciperepo.ListFilter,
) (recipes []models.Recipe, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list recipes")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	sb := psql.Select("r.id", "r.user_id", "r.title", "r.description",
		"r.time_minutes", "r.price::text", "r.link", "r.image").
		Distinct().
		From("recipes r").
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("r.id DESC")

	if len(filter.TagIDs) != 0 {
		sb = sb.Join("recipe_tags rt ON rt.recipe_id = r.id").
			Where(squirrel.Eq{"rt.tag_id": filter.TagIDs})
	}

	if len(filter.IngredientIDs) != 0 {
		sb = sb.Join("recipe_ingredients ri ON ri.recipe_id = r.id").
			Where(squirrel.Eq{"ri.ingredient_id": filter.IngredientIDs})
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	recipes = make([]models.Recipe, 0, 10) //nolint:gomnd

	for rows.Next() {
		var r models.Recipe

		if err = rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Description,
			&r.TimeMinutes, &r.Price, &r.Link, &r.Image); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		recipes = append(recipes, r)
	}

	rows.Close()

	refs := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		refs[i] = &recipes[i]
	}

	if err = rr.loadItems(ctx, tx, refs); err != nil {
		return nil, err
	}

	return recipes, nil
}

// UpdateRecipe applies the non-nil fields of upd to the caller's
// recipe. A present Tags or Ingredients list clears the existing
// links before reconciling the new names.
func (rr RecipesPostgresRepo) UpdateRecipe(ctx context.Context, //nolint:cyclop,nonamedreturns
	userID, id int64, upd reciperepo.RecipeUpdate,
) (r models.Recipe, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update recipe")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id").
		From("recipes").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return models.Recipe{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = reciperepo.ErrNotFound

			return models.Recipe{}, err
		}

		return models.Recipe{}, fmt.Errorf("scan error: %w", err)
	}

	ub := psql.Update("recipes").Where(squirrel.Eq{"id": id})
	scalar := false

	if upd.Title != nil {
		ub = ub.Set("title", *upd.Title)
		scalar = true
	}

	if upd.Description != nil {
		ub = ub.Set("description", *upd.Description)
		scalar = true
	}

	if upd.TimeMinutes != nil {
		ub = ub.Set("time_minutes", *upd.TimeMinutes)
		scalar = true
	}

	if upd.Price != nil {
		ub = ub.Set("price", *upd.Price)
		scalar = true
	}

	if upd.Link != nil {
		ub = ub.Set("link", *upd.Link)
		scalar = true
	}

	if scalar {
		query, args, err = ub.ToSql()
		if err != nil {
			return models.Recipe{}, fmt.Errorf("to sql error: %w", err)
		}

		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return models.Recipe{}, fmt.Errorf("exec error: %w", err)
		}
	}

	if upd.Tags != nil {
		if err = rr.replaceLinks(ctx, tx, catalogrepo.Tags, userID, id, *upd.Tags); err != nil {
			return models.Recipe{}, err
		}
	}

	if upd.Ingredients != nil {
		if err = rr.replaceLinks(ctx, tx, catalogrepo.Ingredients, userID, id, *upd.Ingredients); err != nil {
			return models.Recipe{}, err
		}
	}

	query, args, err = psql.Select("id", "user_id", "title", "description",
		"time_minutes", "price::text", "link", "image").
		From("recipes").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Recipe{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(
		&r.ID, &r.UserID, &r.Title, &r.Description,
		&r.TimeMinutes, &r.Price, &r.Link, &r.Image); err != nil {
		return models.Recipe{}, fmt.Errorf("scan error: %w", err)
	}

	if err = rr.loadItems(ctx, tx, []*models.Recipe{&r}); err != nil {
		return models.Recipe{}, err
	}

	return r, nil
}

func (rr RecipesPostgresRepo) DeleteRecipe(ctx context.Context, userID, id int64) (err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete recipe")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("recipes").
		Where(squirrel.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = reciperepo.ErrNotFound

		return err
	}

	return nil
}

func (rr RecipesPostgresRepo) SetRecipeImage(ctx context.Context, userID, id int64, path string) (err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "set recipe image")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("recipes").
		Set("image", path).
		Where(squirrel.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = reciperepo.ErrNotFound

		return err
	}

	return nil
}

func (rr RecipesPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		rr.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}

// reconcile resolves each name to a catalog row owned by userID,
// creating missing ones, and links them to the recipe. The upsert
// targets the (user_id, name) uniqueness constraint, so a concurrent
// creator of the same pair converges on the same row.
func (rr RecipesPostgresRepo) reconcile(ctx context.Context,
	tx pgx.Tx, kind catalogrepo.Kind, userID, recipeID int64, names []string,
) ([]models.CatalogItem, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	items := make([]models.CatalogItem, 0, len(names))

	for _, name := range names {
		query, args, err := psql.Insert(kind.Table).
			Columns("user_id", "name").
			Values(userID, name).
			Suffix("ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name RETURNING id").ToSql()
		if err != nil {
			return nil, fmt.Errorf("to sql error: %w", err)
		}

		item := models.CatalogItem{UserID: userID, Name: name}

		if err := tx.QueryRow(ctx, query, args...).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		query, args, err = psql.Insert(kind.LinkTable).
			Columns("recipe_id", kind.LinkCol).
			Values(recipeID, item.ID).
			Suffix("ON CONFLICT DO NOTHING").ToSql()
		if err != nil {
			return nil, fmt.Errorf("to sql error: %w", err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("exec error: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func (rr RecipesPostgresRepo) replaceLinks(ctx context.Context,
	tx pgx.Tx, kind catalogrepo.Kind, userID, recipeID int64, names []string,
) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete(kind.LinkTable).
		Where(squirrel.Eq{"recipe_id": recipeID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if _, err := rr.reconcile(ctx, tx, kind, userID, recipeID, names); err != nil {
		return err
	}

	return nil
}

// loadItems fills Tags and Ingredients for the given recipes with two
// batched queries.
func (rr RecipesPostgresRepo) loadItems(ctx context.Context, tx pgx.Tx, recipes []*models.Recipe) error {
	for i := range recipes {
		recipes[i].Tags = make([]models.CatalogItem, 0)
		recipes[i].Ingredients = make([]models.CatalogItem, 0)
	}

	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(recipes))
	byID := make(map[int64]*models.Recipe, len(recipes))

	for _, r := range recipes {
		ids = append(ids, r.ID)
		byID[r.ID] = r
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	for _, kind := range []catalogrepo.Kind{catalogrepo.Tags, catalogrepo.Ingredients} {
		query, args, err := psql.Select("l.recipe_id", "c.id", "c.user_id", "c.name").
			From(kind.LinkTable + " l").
			Join(kind.Table + " c ON c.id = l." + kind.LinkCol).
			Where(squirrel.Eq{"l.recipe_id": ids}).
			OrderBy("c.id ASC").ToSql()
		if err != nil {
			return fmt.Errorf("to sql error: %w", err)
		}

		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query error: %w", err)
		}

		for rows.Next() {
			var (
				recipeID int64
				item     models.CatalogItem
			)

			if err := rows.Scan(&recipeID, &item.ID, &item.UserID, &item.Name); err != nil {
				rows.Close()

				return fmt.Errorf("scan error: %w", err)
			}

			if kind.Table == catalogrepo.Tags.Table {
				byID[recipeID].Tags = append(byID[recipeID].Tags, item)
			} else {
				byID[recipeID].Ingredients = append(byID[recipeID].Ingredients, item)
			}
		}

		rows.Close()
	}

	return nil
}
