package order

import (
	"bytes"
	"encoding/json"
)

const (
	msgQuantityNotInteger = "Quantity must be an integer"
	msgQuantityFractional = "Quantity should be a valid integer, got a number with a fractional part"
)

// ValidateNewOrder checks a proposed order before any id is allocated.
// Checks run in a fixed sequence (symbol, quantity type, quantity value) and
// the first failure is returned. The quantity arrives as raw JSON because the
// API accepts any JSON value there and the type check is part of validation.
func ValidateNewOrder(supported map[string]struct{}, symbol string, rawQuantity json.RawMessage) (int64, error) {
	if _, ok := supported[symbol]; !ok {
		return 0, &UnsupportedSymbolError{Symbol: symbol}
	}
	qty, err := parseQuantity(rawQuantity)
	if err != nil {
		return 0, err
	}
	if qty <= 0 {
		return 0, &QuantityValueError{}
	}
	return qty, nil
}

func parseQuantity(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, &QuantityTypeError{Message: msgQuantityNotInteger}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return 0, &QuantityTypeError{Message: msgQuantityNotInteger}
	}

	num, ok := value.(json.Number)
	if !ok {
		// strings, booleans, arrays, objects, null
		return 0, &QuantityTypeError{Message: msgQuantityNotInteger}
	}
	qty, err := num.Int64()
	if err != nil {
		// a JSON number that is not representable as an integer
		return 0, &QuantityTypeError{Message: msgQuantityFractional}
	}
	return qty, nil
}
