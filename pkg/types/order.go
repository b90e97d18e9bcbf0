package types

import "time"

type OrderStatus string

const (
	OrderStatusPending   = OrderStatus("PENDING")
	OrderStatusExecuted  = OrderStatus("EXECUTED")
	OrderStatusCancelled = OrderStatus("CANCELLED")
)

// OrderInfo is the immutable point-in-time view of an order served over the
// REST API and pushed to ws subscribers. ExecutedTime stays null until the
// order is executed.
type OrderInfo struct {
	OrderID      string      `json:"order_id"`
	Status       OrderStatus `json:"status"`
	Symbol       string      `json:"symbol"`
	Quantity     int64       `json:"quantity"`
	CreatedTime  time.Time   `json:"created_time"`
	ExecutedTime *time.Time  `json:"executed_time"`
}
