// Package product_repo provides the PostgreSQL implementation of the
// product catalog repository.
package product_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/domain/products"
	"stocktrack/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productCols = postgres.ColumnWhitelist("plu", "name")

// pgUniqueViolation is the postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

var _ products.Repository = (*ProductRepo)(nil)

// ProductRepo implements products.Repository.
type ProductRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewProductRepo creates a new product catalog repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new product. A unique violation on plu is classified as
// a duplicate entry, never surfaced as a raw driver error.
func (r *ProductRepo) Create(ctx context.Context, product products.Product) error {
	q := r.builder.Insert(productsTable).
		Columns("plu", "name").
		Values(product.PLU, product.Name)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewDuplicate("product", "plu", product.PLU)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// Exists reports whether a product with the given PLU exists.
func (r *ProductRepo) Exists(ctx context.Context, plu int64) (bool, error) {
	q := r.builder.Select("1").
		From(productsTable).
		Where(squirrel.Eq{"plu": plu}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &one, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check product exists: %w", err)
	}

	return true, nil
}

// List returns products matching the filter, ordered by plu.
func (r *ProductRepo) List(ctx context.Context, f products.ListFilter) ([]products.Product, error) {
	q, err := r.buildListQuery(f)
	if err != nil {
		return nil, err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []products.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	return items, nil
}

func (r *ProductRepo) buildListQuery(f products.ListFilter) (squirrel.SelectBuilder, error) {
	q := r.builder.Select("plu", "name").
		From(productsTable)

	q, err := postgres.ApplyFilters(q, f.Items(), productCols)
	if err != nil {
		return q, err
	}

	return q.OrderBy("plu"), nil
}
