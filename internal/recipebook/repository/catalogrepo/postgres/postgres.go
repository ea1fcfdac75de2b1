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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// CatalogPostgresRepo serves either the tags or the ingredients table,
// chosen at construction. The two entities are identical in shape, so
// one implementation covers both.
type CatalogPostgresRepo struct {
	db   *pgxpool.Pool
	kind catalogrepo.Kind
}

func New(ctx context.Context, cfg config.PostgresDB, kind catalogrepo.Kind) (CatalogPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg))
	if err != nil {
		return CatalogPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg); err != nil {
		return CatalogPostgresRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return CatalogPostgresRepo{
		db:   db,
		kind: kind,
	}, nil
}

// GetOrCreate resolves (userID, name) to an existing row or inserts a
// new one. The upsert runs as a single statement against the
// (user_id, name) uniqueness constraint, so concurrent callers with
// the same pair always converge on one row.
func (cr CatalogPostgresRepo) GetOrCreate(ctx context.Context, //nolint:nonamedreturns
	userID int64, name string,
) (item models.CatalogItem, err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get or create")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert(cr.kind.Table).
		Columns("user_id", "name").
		Values(userID, name).
		Suffix("ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name RETURNING id").ToSql()
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("to sql error: %w", err)
	}

	item.UserID = userID
	item.Name = name

	if err = tx.QueryRow(ctx, query, args...).Scan(&item.ID); err != nil {
		return models.CatalogItem{}, fmt.Errorf("scan error: %w", err)
	}

	return item, nil
}

func (cr CatalogPostgresRepo) List(ctx context.Context, //nolint:nonamedreturns
	userID int64, assignedOnly bool,
) (items []models.CatalogItem, err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	sb := psql.Select("c.id", "c.user_id", "c.name").
		Distinct().
		From(cr.kind.Table + " c").
		Where(squirrel.Eq{"c.user_id": userID}).
		OrderBy("c.name DESC")

	if assignedOnly {
		sb = sb.Join(cr.kind.LinkTable + " l ON l." + cr.kind.LinkCol + " = c.id")
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

	items = make([]models.CatalogItem, 0, 10) //nolint:gomnd

	for rows.Next() {
		var item models.CatalogItem

		if err = rows.Scan(&item.ID, &item.UserID, &item.Name); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func (cr CatalogPostgresRepo) Get(ctx context.Context, //nolint:nonamedreturns
	userID, id int64,
) (item models.CatalogItem, err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "user_id", "name").
		From(cr.kind.Table).
		Where(squirrel.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&item.ID, &item.UserID, &item.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = catalogrepo.ErrNotFound

			return models.CatalogItem{}, err
		}

		return models.CatalogItem{}, fmt.Errorf("scan error: %w", err)
	}

	return item, nil
}

func (cr CatalogPostgresRepo) Rename(ctx context.Context, //nolint:nonamedreturns
	userID, id int64, name string,
) (item models.CatalogItem, err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "rename")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update(cr.kind.Table).
		Set("name", name).
		Where(squirrel.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) && target.Code == uniqueViolation {
			err = catalogrepo.ErrAlreadyExists

			return models.CatalogItem{}, err
		}

		return models.CatalogItem{}, fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = catalogrepo.ErrNotFound

		return models.CatalogItem{}, err
	}

	return models.CatalogItem{ID: id, UserID: userID, Name: name}, nil
}

func (cr CatalogPostgresRepo) Delete(ctx context.Context, userID, id int64) (err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete(cr.kind.Table).
		Where(squirrel.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		err = catalogrepo.ErrNotFound

		return err
	}

	return nil
}

func (cr CatalogPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		cr.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}
