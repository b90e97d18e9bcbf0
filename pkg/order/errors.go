package order

import "fmt"

// Validation and lifecycle errors carry the exact messages the API surfaces
// in the `detail` field of error responses.

type UnsupportedSymbolError struct {
	Symbol string
}

func (e *UnsupportedSymbolError) Error() string {
	return fmt.Sprintf("Symbol: %s is not supported", e.Symbol)
}

type QuantityTypeError struct {
	Message string
}

func (e *QuantityTypeError) Error() string {
	return e.Message
}

type QuantityValueError struct{}

func (e *QuantityValueError) Error() string {
	return "Quantity must be greater than zero"
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Order with ID: %s does not exist", e.ID)
}

type AlreadyExecutedError struct {
	ID int64
}

func (e *AlreadyExecutedError) Error() string {
	return fmt.Sprintf("Order with ID: %d has already been executed", e.ID)
}

type AlreadyCancelledError struct {
	ID int64
}

func (e *AlreadyCancelledError) Error() string {
	return fmt.Sprintf("Order with ID: %d has already been canceled", e.ID)
}
