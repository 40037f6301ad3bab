package book

import (
	"time"

	"github.com/quagmt/udecimal"
)

// Registry is the sole authority on order existence, side, price,
// remaining quantity and lifecycle state. It never deletes an order:
// terminal orders stay readable for history, they just reject further
// mutations.
//
// The read accessors are total: an unknown id reports Canceled for
// state, zero for quantity and price, and false for side/existence, so
// callers never need an existence check before a read.
type Registry struct {
	orders map[string]*Order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		orders: make(map[string]*Order),
	}
}

// Reserve pre-sizes the backing map for an expected number of orders.
// It is a performance hint with no observable effect and only applies
// while the registry is still empty.
func (r *Registry) Reserve(n int) {
	if len(r.orders) == 0 && n > 0 {
		r.orders = make(map[string]*Order, n)
	}
}

// Create registers a new order in state New.
// Fails with ErrDuplicateID if the id is taken and ErrInvalidParam if
// the quantity is not positive or the id is empty.
func (r *Registry) Create(id string, price udecimal.Decimal, qty int64, side Side) (*Order, error) {
	if len(id) == 0 || qty <= 0 {
		return nil, ErrInvalidParam
	}

	if _, ok := r.orders[id]; ok {
		return nil, ErrDuplicateID
	}

	order := &Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Qty:       qty,
		State:     StateNew,
		Timestamp: time.Now().UnixNano(),
	}
	r.orders[id] = order

	return order, nil
}

// Cancel transitions an active order to Canceled.
// Returns false for unknown or terminal orders. It does not touch the
// price-level index; the engine coordinates both structures.
func (r *Registry) Cancel(id string) bool {
	order, ok := r.orders[id]
	if !ok || order.State.Terminal() {
		return false
	}

	order.State = StateCanceled
	return true
}

// Fill applies an execution of execQty to the order.
// A fill that consumes the full remainder moves the order straight to
// Filled, even from New; a partial fill moves it to PartiallyFilled.
func (r *Registry) Fill(id string, execQty int64) bool {
	if execQty <= 0 {
		return false
	}

	order, ok := r.orders[id]
	if !ok || order.State.Terminal() {
		return false
	}

	if execQty >= order.Qty {
		order.Qty = 0
		order.State = StateFilled
	} else {
		order.Qty -= execQty
		order.State = StatePartiallyFilled
	}

	return true
}

// AmendQuantity sets the remaining quantity of an active order.
// Amending to zero moves the order to Filled: the remainder is treated
// as executed by external means. Amending to a positive quantity keeps
// a New order New and any other active order PartiallyFilled.
func (r *Registry) AmendQuantity(id string, newQty int64) bool {
	if newQty < 0 {
		return false
	}

	order, ok := r.orders[id]
	if !ok || order.State.Terminal() {
		return false
	}

	order.Qty = newQty
	if newQty == 0 {
		order.State = StateFilled
	} else if order.State != StateNew {
		order.State = StatePartiallyFilled
	}

	return true
}

// ReplacePrice updates the limit price of an active order in place.
// Quantity and state are untouched; relocating the order in the
// price-level index is the engine's job.
func (r *Registry) ReplacePrice(id string, newPrice udecimal.Decimal) bool {
	order, ok := r.orders[id]
	if !ok || order.State.Terminal() {
		return false
	}

	order.Price = newPrice
	return true
}

// State returns the lifecycle state, or StateCanceled for an unknown id.
func (r *Registry) State(id string) OrderState {
	order, ok := r.orders[id]
	if !ok {
		return StateCanceled
	}
	return order.State
}

// Exists reports whether the id has ever been registered.
func (r *Registry) Exists(id string) bool {
	_, ok := r.orders[id]
	return ok
}

// RemainingQty returns the unfilled quantity, or 0 for an unknown id.
func (r *Registry) RemainingQty(id string) int64 {
	order, ok := r.orders[id]
	if !ok {
		return 0
	}
	return order.Qty
}

// Price returns the current limit price, or zero for an unknown id.
func (r *Registry) Price(id string) udecimal.Decimal {
	order, ok := r.orders[id]
	if !ok {
		return udecimal.Decimal{}
	}
	return order.Price
}

// IsBuy reports whether the order is a bid; false for unknown ids.
func (r *Registry) IsBuy(id string) bool {
	order, ok := r.orders[id]
	return ok && order.Side == Buy
}

// Side returns the order side, or the zero Side for an unknown id.
func (r *Registry) Side(id string) Side {
	order, ok := r.orders[id]
	if !ok {
		return 0
	}
	return order.Side
}

// Len returns the number of registered orders, terminal ones included.
func (r *Registry) Len() int {
	return len(r.orders)
}

// get returns the live order record, or nil.
func (r *Registry) get(id string) *Order {
	return r.orders[id]
}
