// Package history defines the audit event model and the notifier contract.
//
// History delivery is best-effort: a failed notification is logged and
// swallowed, it never changes the outcome of the mutation that produced it.
package history

import "context"

// Action identifies the state-changing operation an event describes.
type Action string

const (
	ActionCreateProduct           Action = "createProduct"
	ActionCreateStocks            Action = "createStocks"
	ActionIncrementOnShelfStocks  Action = "incrementOnShelfStocks"
	ActionDecrementOnShelfStocks  Action = "decrementOnShelfStocks"
	ActionIncrementInOrdersStocks Action = "incrementInOrdersStocks"
	ActionDecrementInOrdersStocks Action = "decrementInOrdersStocks"
)

// Event is the payload delivered to the history service after a
// successful mutation commits. ShopID is nil for product-level actions.
type Event struct {
	Action Action `json:"action"`
	PLU    int64  `json:"plu"`
	ShopID *int64 `json:"shopId,omitempty"`
}

// Notifier delivers audit events. Implementations must never return a
// delivery failure to the caller and must not block the mutation path.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Nop is a Notifier that discards all events. Used when no history
// endpoint is configured, and in tests.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Event) {}
