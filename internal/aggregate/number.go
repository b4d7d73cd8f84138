package aggregate

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Number is a JSON value that is expected to be numeric. Decoding never
// fails: null, strings, booleans, objects and arrays all yield an invalid
// Number instead of an error.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a valid Number.
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Float returns the value and whether it is a usable (valid, non-NaN)
// number.
func (n Number) Float() (float64, bool) {
	if !n.Valid || math.IsNaN(n.Value) {
		return 0, false
	}
	return n.Value, true
}

// OrNaN returns the value, or NaN when the number is invalid.
func (n Number) OrNaN() float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Value
}

// Int returns the value as an int and whether it is an exact integer.
func (n Number) Int() (int, bool) {
	v, ok := n.Float()
	if !ok || v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int(v), true
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || (data[0] != '-' && (data[0] < '0' || data[0] > '9')) {
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler. Invalid numbers encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	v, ok := n.Float()
	if !ok || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
