package models

import "fmt"

// PaintStatus is the fill level of an owned paint.
type PaintStatus string

const (
	StatusFull  PaintStatus = "full"
	StatusLow   PaintStatus = "low"
	StatusEmpty PaintStatus = "empty"
)

// Statuses lists every status in cycle order.
var Statuses = []PaintStatus{StatusFull, StatusLow, StatusEmpty}

// Next returns the following status in the cycle full → low → empty → full.
// Values rejected by ParseStatus restart the cycle at full.
func (s PaintStatus) Next() PaintStatus {
	switch s {
	case StatusFull:
		return StatusLow
	case StatusLow:
		return StatusEmpty
	case StatusEmpty:
		return StatusFull
	default:
		return StatusFull
	}
}

// Label is the display name used by the inventory filter tabs.
func (s PaintStatus) Label() string {
	switch s {
	case StatusFull:
		return "Full"
	case StatusLow:
		return "Low"
	case StatusEmpty:
		return "Empty"
	}
	return string(s)
}

// Valid reports whether s is one of the three known statuses.
func (s PaintStatus) Valid() bool {
	switch s {
	case StatusFull, StatusLow, StatusEmpty:
		return true
	}
	return false
}

// ParseStatus converts a stored or submitted value into a PaintStatus.
func ParseStatus(v string) (PaintStatus, error) {
	s := PaintStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown paint status %q", v)
	}
	return s, nil
}
