// Package stock_repo provides the PostgreSQL implementation of the stock
// record repository.
//
// Locking discipline: GetForUpdate takes an exclusive row lock (SELECT ...
// FOR UPDATE) that is held until the enclosing transaction ends.
// ApplyDelta is a single UPDATE, which blocks on a concurrently held row
// lock and applies its delta to the committed value. Together these
// guarantee that no two writers of the same (plu, shop_id) key ever act on
// a stale pre-image.
package stock_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/domain/stocks"
	"stocktrack/internal/infrastructure/storage/postgres"
)

const stocksTable = "stocks"

var (
	selectCols = []string{"plu", "shop_id", "on_shelf_quantity", "in_orders_quantity"}
	stockCols  = postgres.ColumnWhitelist(selectCols...)
)

// Postgres error codes classified by this repo.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var _ stocks.Repository = (*StockRepo)(nil)

// StockRepo implements stocks.Repository.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock record repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// columnFor maps a counter field to its column name.
func columnFor(field stocks.Field) (string, error) {
	switch field {
	case stocks.FieldOnShelf:
		return "on_shelf_quantity", nil
	case stocks.FieldInOrders:
		return "in_orders_quantity", nil
	default:
		return "", fmt.Errorf("unknown stock field: %q", field)
	}
}

// Create inserts a new stock record. Driver errors are classified here so
// the mutation engine never depends on postgres error encoding:
// unique violation means the (plu, shop_id) key is taken, foreign key
// violation means no product with the PLU exists.
func (r *StockRepo) Create(ctx context.Context, record stocks.StockRecord) error {
	q := r.builder.Insert(stocksTable).
		Columns(selectCols...).
		Values(record.PLU, record.ShopID, record.OnShelfQuantity, record.InOrdersQuantity)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return apperror.NewDuplicate("stock record", "(plu, shopId)",
					fmt.Sprintf("(%d, %d)", record.PLU, record.ShopID))
			case pgForeignKeyViolation:
				return apperror.NewPreconditionFailed(fmt.Sprintf("PLU #%d not found", record.PLU))
			}
		}
		return fmt.Errorf("insert stock record: %w", err)
	}

	return nil
}

// GetForUpdate returns the record with an exclusive row lock.
// Must run inside a transaction, otherwise the lock would be released
// immediately and the read-check-write cycle would race.
func (r *StockRepo) GetForUpdate(ctx context.Context, plu, shopID int64) (stocks.StockRecord, error) {
	if r.txm.GetTx(ctx) == nil {
		return stocks.StockRecord{}, fmt.Errorf("GetForUpdate requires transaction context")
	}

	sql := `
		SELECT plu, shop_id, on_shelf_quantity, in_orders_quantity
		FROM stocks
		WHERE plu = $1 AND shop_id = $2
		FOR UPDATE
	`

	var record stocks.StockRecord
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, plu, shopID); err != nil {
		if pgxscan.NotFound(err) {
			return stocks.StockRecord{}, apperror.NewNotFound("stock record", stockKey(plu, shopID))
		}
		return stocks.StockRecord{}, fmt.Errorf("get stock for update: %w", err)
	}

	return record, nil
}

// ApplyDelta atomically adds delta to the named counter and returns the
// updated record.
func (r *StockRepo) ApplyDelta(ctx context.Context, plu, shopID int64, field stocks.Field, delta int64) (stocks.StockRecord, error) {
	col, err := columnFor(field)
	if err != nil {
		return stocks.StockRecord{}, err
	}

	q := r.builder.Update(stocksTable).
		Set(col, squirrel.Expr(col+" + ?", delta)).
		Where(squirrel.Eq{"plu": plu, "shop_id": shopID}).
		Suffix("RETURNING plu, shop_id, on_shelf_quantity, in_orders_quantity")

	sql, args, err := q.ToSql()
	if err != nil {
		return stocks.StockRecord{}, fmt.Errorf("build update: %w", err)
	}

	var record stocks.StockRecord
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return stocks.StockRecord{}, apperror.NewNotFound("stock record", stockKey(plu, shopID))
		}
		return stocks.StockRecord{}, fmt.Errorf("apply stock delta: %w", err)
	}

	return record, nil
}

// Find returns records matching the filter, ordered by (plu, shop_id).
func (r *StockRepo) Find(ctx context.Context, f stocks.Filter) ([]stocks.StockRecord, error) {
	q, err := r.buildFindQuery(f)
	if err != nil {
		return nil, err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []stocks.StockRecord
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select stocks: %w", err)
	}

	return records, nil
}

// buildFindQuery translates the filter into squirrel predicates.
// Range bounds are inclusive.
func (r *StockRepo) buildFindQuery(f stocks.Filter) (squirrel.SelectBuilder, error) {
	q := r.builder.Select(selectCols...).
		From(stocksTable)

	q, err := postgres.ApplyFilters(q, f.Items(), stockCols)
	if err != nil {
		return q, err
	}

	return q.OrderBy("plu", "shop_id"), nil
}

func stockKey(plu, shopID int64) string {
	return fmt.Sprintf("(%d, %d)", plu, shopID)
}
