package order

import (
	"strconv"
	"sync"
	"time"

	"mocktrade/pkg/types"
)

// Order is the mutable order entity. Id, symbol and quantity are fixed at
// construction; status only ever moves PENDING -> EXECUTED or
// PENDING -> CANCELLED, guarded by the entity's own mutex so that a cancel
// request racing the execution scheduler has exactly one winner.
type Order struct {
	id       int64
	symbol   string
	quantity int64

	mu         sync.Mutex
	status     types.OrderStatus
	createdAt  time.Time
	executedAt *time.Time
}

func New(id int64, symbol string, quantity int64) *Order {
	return &Order{
		id:        id,
		symbol:    symbol,
		quantity:  quantity,
		status:    types.OrderStatusPending,
		createdAt: time.Now(),
	}
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) Symbol() string {
	return o.symbol
}

func (o *Order) Status() types.OrderStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Execute attempts the PENDING -> EXECUTED transition and reports whether it
// happened. A false return means the order was already terminal (lost the
// race to a cancel) and the caller must not emit anything.
func (o *Order) Execute() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != types.OrderStatusPending {
		return false
	}
	now := time.Now()
	o.status = types.OrderStatusExecuted
	o.executedAt = &now
	return true
}

// Cancel attempts the PENDING -> CANCELLED transition. Terminal orders
// reject the request with the matching lifecycle error.
func (o *Order) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.status {
	case types.OrderStatusExecuted:
		return &AlreadyExecutedError{ID: o.id}
	case types.OrderStatusCancelled:
		return &AlreadyCancelledError{ID: o.id}
	}
	o.status = types.OrderStatusCancelled
	return nil
}

// Snapshot returns an immutable view of the order for API responses and
// subscriber broadcasts.
func (o *Order) Snapshot() types.OrderInfo {
	o.mu.Lock()
	defer o.mu.Unlock()

	var executedAt *time.Time
	if o.executedAt != nil {
		t := *o.executedAt
		executedAt = &t
	}
	return types.OrderInfo{
		OrderID:      strconv.FormatInt(o.id, 10),
		Status:       o.status,
		Symbol:       o.symbol,
		Quantity:     o.quantity,
		CreatedTime:  o.createdAt,
		ExecutedTime: executedAt,
	}
}
