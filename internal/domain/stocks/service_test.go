package stocks

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/domain/history"
	"stocktrack/internal/domain/products"
)

// --- Fakes ---
//
// The fake store models the storage locking contract: GetForUpdate takes a
// per-key lock held until the transaction ends, ApplyDelta blocks on that
// lock when called outside the holding transaction. This lets the
// serialization guarantees be exercised without a database.

type recordKey struct {
	plu, shopID int64
}

type stockRow struct {
	mu  sync.Mutex // row lock
	rec StockRecord
}

type fakeStore struct {
	mu           sync.Mutex // guards the records map
	records      map[recordKey]*stockRow
	negativeSeen bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[recordKey]*stockRow)}
}

type txState struct {
	mu    sync.Mutex
	locks map[recordKey]*stockRow
}

type txCtxKey struct{}

// fakeTxManager implements tx.Manager over the fake store's row locks.
type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txCtxKey{}) != nil {
		return fn(ctx)
	}
	st := &txState{locks: make(map[recordKey]*stockRow)}
	err := fn(context.WithValue(ctx, txCtxKey{}, st))
	for _, row := range st.locks {
		row.mu.Unlock()
	}
	return err
}

func txFromContext(ctx context.Context) *txState {
	if st, ok := ctx.Value(txCtxKey{}).(*txState); ok {
		return st
	}
	return nil
}

func (s *fakeStore) row(plu, shopID int64) *stockRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[recordKey{plu, shopID}]
}

func (s *fakeStore) Create(_ context.Context, record StockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey{record.PLU, record.ShopID}
	if _, ok := s.records[key]; ok {
		return apperror.NewDuplicate("stock record", "(plu, shopId)", key)
	}
	s.records[key] = &stockRow{rec: record}
	return nil
}

func (s *fakeStore) GetForUpdate(ctx context.Context, plu, shopID int64) (StockRecord, error) {
	st := txFromContext(ctx)
	if st == nil {
		return StockRecord{}, apperror.NewInternal(nil).WithDetail("reason", "GetForUpdate outside transaction")
	}
	row := s.row(plu, shopID)
	if row == nil {
		return StockRecord{}, apperror.NewNotFound("stock record", recordKey{plu, shopID})
	}
	key := recordKey{plu, shopID}
	st.mu.Lock()
	_, held := st.locks[key]
	st.mu.Unlock()
	if !held {
		row.mu.Lock()
		st.mu.Lock()
		st.locks[key] = row
		st.mu.Unlock()
	}
	return row.rec, nil
}

func (s *fakeStore) ApplyDelta(ctx context.Context, plu, shopID int64, field Field, delta int64) (StockRecord, error) {
	row := s.row(plu, shopID)
	if row == nil {
		return StockRecord{}, apperror.NewNotFound("stock record", recordKey{plu, shopID})
	}

	key := recordKey{plu, shopID}
	held := false
	if st := txFromContext(ctx); st != nil {
		st.mu.Lock()
		_, held = st.locks[key]
		st.mu.Unlock()
	}
	if !held {
		row.mu.Lock()
		defer row.mu.Unlock()
	}

	if field == FieldInOrders {
		row.rec.InOrdersQuantity += delta
	} else {
		row.rec.OnShelfQuantity += delta
	}
	if row.rec.OnShelfQuantity < 0 || row.rec.InOrdersQuantity < 0 {
		s.mu.Lock()
		s.negativeSeen = true
		s.mu.Unlock()
	}
	return row.rec, nil
}

func (s *fakeStore) Find(_ context.Context, f Filter) ([]StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []StockRecord
	for _, row := range s.records {
		rec := row.rec
		if f.PLU != nil && rec.PLU != *f.PLU {
			continue
		}
		if f.ShopID != nil && rec.ShopID != *f.ShopID {
			continue
		}
		if f.OnShelfFrom != nil && rec.OnShelfQuantity < *f.OnShelfFrom {
			continue
		}
		if f.OnShelfTo != nil && rec.OnShelfQuantity > *f.OnShelfTo {
			continue
		}
		if f.InOrdersFrom != nil && rec.InOrdersQuantity < *f.InOrdersFrom {
			continue
		}
		if f.InOrdersTo != nil && rec.InOrdersQuantity > *f.InOrdersTo {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

type fakeCatalog struct {
	mu    sync.Mutex
	items map[int64]products.Product
}

func newFakeCatalog(plus ...int64) *fakeCatalog {
	c := &fakeCatalog{items: make(map[int64]products.Product)}
	for _, plu := range plus {
		c.items[plu] = products.Product{PLU: plu, Name: "test"}
	}
	return c
}

func (c *fakeCatalog) Create(_ context.Context, p products.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[p.PLU]; ok {
		return apperror.NewDuplicate("product", "plu", p.PLU)
	}
	c.items[p.PLU] = p
	return nil
}

func (c *fakeCatalog) Exists(_ context.Context, plu int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[plu]
	return ok, nil
}

func (c *fakeCatalog) List(_ context.Context, _ products.ListFilter) ([]products.Product, error) {
	return nil, nil
}

// recordingNotifier captures emitted events. When failing is set it
// simulates a broken history transport: the event is counted but delivery
// "fails" internally, which must be invisible to the caller.
type recordingNotifier struct {
	mu      sync.Mutex
	events  []history.Event
	failing bool
}

func (n *recordingNotifier) Notify(_ context.Context, event history.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) actions() []history.Action {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]history.Action, len(n.events))
	for i, e := range n.events {
		out[i] = e.Action
	}
	return out
}

func newTestService(store *fakeStore, catalog *fakeCatalog, notifier history.Notifier) *Service {
	return NewService(store, catalog, &fakeTxManager{}, notifier)
}

// --- Tests ---

func TestCreateStocks(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds for existing product", func(t *testing.T) {
		store := newFakeStore()
		notifier := &recordingNotifier{}
		svc := newTestService(store, newFakeCatalog(3000), notifier)

		rec, err := svc.CreateStocks(ctx, 3000, 1, 5, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), rec.OnShelfQuantity)
		assert.Equal(t, int64(2), rec.InOrdersQuantity)
		assert.Equal(t, []history.Action{history.ActionCreateStocks}, notifier.actions())
	})

	t.Run("fails with precondition for missing product", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, newFakeCatalog(), &recordingNotifier{})

		_, err := svc.CreateStocks(ctx, 9999, 1, 0, 0)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodePreconditionFailed, appErr.Code)
		assert.Nil(t, store.row(9999, 1), "nothing must be written")
	})

	t.Run("fails with duplicate on second create", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, newFakeCatalog(3000), &recordingNotifier{})

		_, err := svc.CreateStocks(ctx, 3000, 1, 7, 0)
		require.NoError(t, err)

		_, err = svc.CreateStocks(ctx, 3000, 1, 1, 1)
		assert.True(t, apperror.IsDuplicate(err))

		// First record untouched
		row := store.row(3000, 1)
		require.NotNil(t, row)
		assert.Equal(t, int64(7), row.rec.OnShelfQuantity)
	})

	t.Run("rejects negative initial quantities", func(t *testing.T) {
		svc := newTestService(newFakeStore(), newFakeCatalog(3000), &recordingNotifier{})
		_, err := svc.CreateStocks(ctx, 3000, 1, -1, 0)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})
}

func TestDecrement(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects decrement below zero and leaves record unchanged", func(t *testing.T) {
		store := newFakeStore()
		notifier := &recordingNotifier{}
		svc := newTestService(store, newFakeCatalog(3000), notifier)

		_, err := svc.CreateStocks(ctx, 3000, 1, 3, 0)
		require.NoError(t, err)

		_, err = svc.Decrement(ctx, FieldOnShelf, 3000, 1, 4)
		assert.True(t, apperror.IsNegativeStock(err))

		recs, err := svc.GetStocks(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, int64(3), recs[0].OnShelfQuantity)

		// No decrement event was emitted for the rejected mutation
		assert.Equal(t, []history.Action{history.ActionCreateStocks}, notifier.actions())
	})

	t.Run("fails with not found for absent record", func(t *testing.T) {
		svc := newTestService(newFakeStore(), newFakeCatalog(3000), &recordingNotifier{})
		_, err := svc.Decrement(ctx, FieldOnShelf, 3000, 1, 1)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc := newTestService(newFakeStore(), newFakeCatalog(3000), &recordingNotifier{})
		_, err := svc.Decrement(ctx, FieldOnShelf, 3000, 1, 0)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})
}

func TestIncrement(t *testing.T) {
	ctx := context.Background()

	t.Run("adds to the named counter", func(t *testing.T) {
		store := newFakeStore()
		notifier := &recordingNotifier{}
		svc := newTestService(store, newFakeCatalog(3000), notifier)

		_, err := svc.CreateStocks(ctx, 3000, 1, 1, 1)
		require.NoError(t, err)

		rec, err := svc.Increment(ctx, FieldInOrders, 3000, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.OnShelfQuantity)
		assert.Equal(t, int64(5), rec.InOrdersQuantity)
		assert.Equal(t,
			[]history.Action{history.ActionCreateStocks, history.ActionIncrementInOrdersStocks},
			notifier.actions(),
		)
	})

	t.Run("fails with not found for absent record", func(t *testing.T) {
		svc := newTestService(newFakeStore(), newFakeCatalog(3000), &recordingNotifier{})
		_, err := svc.Increment(ctx, FieldOnShelf, 3000, 1, 1)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestConcurrentDecrements(t *testing.T) {
	const n = 100

	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, newFakeCatalog(3000), &recordingNotifier{})

	_, err := svc.CreateStocks(ctx, 3000, 1, n, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Decrement(ctx, FieldOnShelf, 3000, 1, 1)
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err, "every unit decrement of an N-valued counter must succeed")
	}

	row := store.row(3000, 1)
	require.NotNil(t, row)
	assert.Equal(t, int64(0), row.rec.OnShelfQuantity, "no lost updates, no overshoot")
	assert.False(t, store.negativeSeen, "counter must never be observed negative")
}

func TestConcurrentMixedAdjustments(t *testing.T) {
	const (
		initial    = 100
		decrements = 50
		increments = 30
	)

	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, newFakeCatalog(3000), &recordingNotifier{})

	_, err := svc.CreateStocks(ctx, 3000, 1, initial, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errCh := make(chan error, decrements+increments)
	for i := 0; i < decrements; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Decrement(ctx, FieldOnShelf, 3000, 1, 1)
			errCh <- err
		}()
	}
	for i := 0; i < increments; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Increment(ctx, FieldOnShelf, 3000, 1, 1)
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	// The counter can never drop below initial-decrements, so every
	// operation must succeed regardless of interleaving.
	for err := range errCh {
		assert.NoError(t, err)
	}

	row := store.row(3000, 1)
	require.NotNil(t, row)
	assert.Equal(t, int64(initial-decrements+increments), row.rec.OnShelfQuantity)
	assert.False(t, store.negativeSeen)
}

func TestAuditNonInterference(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	notifier := &recordingNotifier{failing: true}
	svc := newTestService(store, newFakeCatalog(3000), notifier)

	_, err := svc.CreateStocks(ctx, 3000, 1, 10, 0)
	require.NoError(t, err)

	rec, err := svc.Decrement(ctx, FieldOnShelf, 3000, 1, 4)
	require.NoError(t, err, "notifier failure must not change the mutation outcome")
	assert.Equal(t, int64(6), rec.OnShelfQuantity)

	row := store.row(3000, 1)
	require.NotNil(t, row)
	assert.Equal(t, int64(6), row.rec.OnShelfQuantity, "committed value unaffected by notifier failure")
}

func TestGetStocksFilters(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store, newFakeCatalog(3000, 3001), &recordingNotifier{})

	_, err := svc.CreateStocks(ctx, 3000, 1, 10, 2)
	require.NoError(t, err)
	_, err = svc.CreateStocks(ctx, 3000, 2, 15, 0)
	require.NoError(t, err)
	_, err = svc.CreateStocks(ctx, 3001, 1, 3, 8)
	require.NoError(t, err)

	t.Run("no filters returns all", func(t *testing.T) {
		recs, err := svc.GetStocks(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, recs, 3)
	})

	t.Run("by plu", func(t *testing.T) {
		plu := int64(3000)
		recs, err := svc.GetStocks(ctx, Filter{PLU: &plu})
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("by on-shelf lower bound", func(t *testing.T) {
		from := int64(11)
		recs, err := svc.GetStocks(ctx, Filter{OnShelfFrom: &from})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, int64(15), recs[0].OnShelfQuantity)
	})
}

// TestLifecycleScenario walks the full create/adjust sequence end to end.
func TestLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	catalog := newFakeCatalog()
	notifier := &recordingNotifier{}

	productSvc := products.NewService(catalog, notifier)
	stockSvc := newTestService(store, catalog, notifier)

	_, err := productSvc.CreateProduct(ctx, 3000, "Apples")
	require.NoError(t, err)

	rec, err := stockSvc.CreateStocks(ctx, 3000, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.OnShelfQuantity)

	rec, err = stockSvc.Increment(ctx, FieldOnShelf, 3000, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.OnShelfQuantity)
	assert.Equal(t, int64(1), rec.InOrdersQuantity)

	rec, err = stockSvc.Decrement(ctx, FieldOnShelf, 3000, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.OnShelfQuantity)
	assert.Equal(t, int64(1), rec.InOrdersQuantity)

	_, err = stockSvc.Decrement(ctx, FieldOnShelf, 3000, 1, 1)
	assert.True(t, apperror.IsNegativeStock(err))

	recs, err := stockSvc.GetStocks(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(0), recs[0].OnShelfQuantity)
	assert.Equal(t, int64(1), recs[0].InOrdersQuantity)

	assert.Equal(t, []history.Action{
		history.ActionCreateProduct,
		history.ActionCreateStocks,
		history.ActionIncrementOnShelfStocks,
		history.ActionDecrementOnShelfStocks,
	}, notifier.actions())
}
