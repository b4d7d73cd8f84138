// Package tablesort tracks the active sort column and direction of the
// trips table.
package tablesort

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultColumn is the column the trips table is sorted by on start.
const DefaultColumn = "pickup_datetime"

// Paging limits accepted by the trips endpoint.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Columns lists the sortable trips columns in display order.
var Columns = []string{"pickup_datetime", "distance", "fare", "total", "duration"}

// State is the active sort column and direction. Exactly one column is
// active at a time.
type State struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Initial returns the starting state: newest pickups first.
func Initial() State {
	return State{Column: DefaultColumn, Direction: Desc}
}

// Toggle returns the state after the user clicks column. Clicking the
// active column flips its direction; clicking any other column makes it
// active in descending order.
func (s State) Toggle(column string) State {
	if column == s.Column {
		return State{Column: column, Direction: s.Direction.flip()}
	}
	return State{Column: column, Direction: Desc}
}

func (d Direction) flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Valid reports whether column is one of the sortable columns.
func Valid(column string) bool {
	for _, c := range Columns {
		if c == column {
			return true
		}
	}
	return false
}

// ParseDirection converts "asc" or "desc" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("invalid sort order %q (must be asc or desc)", s)
	}
}

// Params builds the paging and ordering parameters of a trips-page query.
// limit is clamped to [1, MaxLimit] and offset to >= 0.
func Params(s State, limit, offset int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return "limit=" + strconv.Itoa(limit) +
		"&offset=" + strconv.Itoa(offset) +
		"&sort=" + url.QueryEscape(s.Column) +
		"&order=" + url.QueryEscape(string(s.Direction))
}

// Parse builds a state from user input. An empty column keeps the default
// column; an empty order means descending.
func Parse(column, order string) (State, error) {
	s := Initial()
	if column != "" {
		if !Valid(column) {
			return State{}, fmt.Errorf("unknown sort column %q (valid: %s)", column, strings.Join(Columns, ", "))
		}
		s.Column = column
	}
	if order != "" {
		d, err := ParseDirection(order)
		if err != nil {
			return State{}, err
		}
		s.Direction = d
	}
	return s, nil
}
