package stocks

import (
	"context"
	"fmt"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/core/tx"
	"stocktrack/internal/domain/history"
	"stocktrack/internal/domain/products"
	"stocktrack/pkg/logger"
)

// Direction selects increment or decrement for AdjustStocks.
type Direction string

const (
	DirectionIncrement Direction = "increment"
	DirectionDecrement Direction = "decrement"
)

// Service is the only path permitted to change stock record counters.
// It enforces the non-negativity invariant under concurrency and emits
// one audit event per successful mutation.
type Service struct {
	repo     Repository
	catalog  products.Repository
	txm      tx.Manager
	notifier history.Notifier
}

// NewService creates a new quantity mutation engine.
func NewService(repo Repository, catalog products.Repository, txm tx.Manager, notifier history.Notifier) *Service {
	if notifier == nil {
		notifier = history.Nop{}
	}
	return &Service{
		repo:     repo,
		catalog:  catalog,
		txm:      txm,
		notifier: notifier,
	}
}

// CreateStocks creates the stock record for a (plu, shop) pair.
// The product must already exist in the catalog; at most one record may
// exist per pair.
func (s *Service) CreateStocks(ctx context.Context, plu, shopID, onShelf, inOrders int64) (StockRecord, error) {
	if onShelf < 0 || inOrders < 0 {
		return StockRecord{}, apperror.NewValidation("initial quantities must not be negative")
	}

	exists, err := s.catalog.Exists(ctx, plu)
	if err != nil {
		return StockRecord{}, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return StockRecord{}, apperror.NewPreconditionFailed(fmt.Sprintf("PLU #%d not found", plu))
	}

	record := StockRecord{
		PLU:              plu,
		ShopID:           shopID,
		OnShelfQuantity:  onShelf,
		InOrdersQuantity: inOrders,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return StockRecord{}, err
	}

	logger.Info(ctx, "stock record created", "plu", plu, "shop_id", shopID)

	s.notify(ctx, history.ActionCreateStocks, plu, shopID)
	return record, nil
}

// Adjust applies an increment or decrement to one counter.
func (s *Service) Adjust(ctx context.Context, field Field, direction Direction, plu, shopID, quantity int64) (StockRecord, error) {
	switch direction {
	case DirectionIncrement:
		return s.Increment(ctx, field, plu, shopID, quantity)
	case DirectionDecrement:
		return s.Decrement(ctx, field, plu, shopID, quantity)
	default:
		return StockRecord{}, apperror.NewValidation("unknown adjustment direction")
	}
}

// Increment adds quantity to the named counter.
//
// Increasing a counter is always safe, so this is a single atomic add with
// no precondition beyond existence. The store serializes the add against
// concurrently held row locks, so an increment can never interleave with a
// decrement's read-check-write cycle.
func (s *Service) Increment(ctx context.Context, field Field, plu, shopID, quantity int64) (StockRecord, error) {
	if err := validateAdjustment(field, quantity); err != nil {
		return StockRecord{}, err
	}

	updated, err := s.repo.ApplyDelta(ctx, plu, shopID, field, quantity)
	if err != nil {
		return StockRecord{}, err
	}

	s.notify(ctx, incrementAction(field), plu, shopID)
	return updated, nil
}

// Decrement subtracts quantity from the named counter.
//
// The whole read-check-write cycle runs inside one transaction holding an
// exclusive row lock, so concurrent decrements of the same key are strictly
// serialized and none observes a stale pre-image. A decrement that would
// drive the counter negative aborts without writing.
func (s *Service) Decrement(ctx context.Context, field Field, plu, shopID, quantity int64) (StockRecord, error) {
	if err := validateAdjustment(field, quantity); err != nil {
		return StockRecord{}, err
	}

	var updated StockRecord
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, plu, shopID)
		if err != nil {
			return err
		}

		if quantity > current.Counter(field) {
			return apperror.NewNegativeStock(string(field), quantity, current.Counter(field))
		}

		updated, err = s.repo.ApplyDelta(ctx, plu, shopID, field, -quantity)
		return err
	})
	if err != nil {
		return StockRecord{}, err
	}

	// Notify only after the transaction committed; delivery failure must
	// not undo the decrement.
	s.notify(ctx, decrementAction(field), plu, shopID)
	return updated, nil
}

// GetStocks returns stock records matching the filter. Read-only, no
// locking, no audit event.
func (s *Service) GetStocks(ctx context.Context, f Filter) ([]StockRecord, error) {
	records, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("find stocks: %w", err)
	}
	return records, nil
}

func (s *Service) notify(ctx context.Context, action history.Action, plu, shopID int64) {
	s.notifier.Notify(ctx, history.Event{
		Action: action,
		PLU:    plu,
		ShopID: &shopID,
	})
}

func validateAdjustment(field Field, quantity int64) error {
	if !field.Valid() {
		return apperror.NewValidation("unknown stock field")
	}
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive")
	}
	return nil
}

func incrementAction(field Field) history.Action {
	if field == FieldInOrders {
		return history.ActionIncrementInOrdersStocks
	}
	return history.ActionIncrementOnShelfStocks
}

func decrementAction(field Field) history.Action {
	if field == FieldInOrders {
		return history.ActionDecrementInOrdersStocks
	}
	return history.ActionDecrementOnShelfStocks
}
