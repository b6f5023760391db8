package models

// UserPaint records that a user owns a paint. One per (UserID, PaintID).
type UserPaint struct {
	ID      int64
	UserID  string
	PaintID int64
	Status  PaintStatus
}

// InventoryItem is an owned paint joined with its catalog entry.
type InventoryItem struct {
	UserPaint UserPaint
	Paint     Paint
}

// InventoryCounts are per-status totals over all of a user's paints.
type InventoryCounts struct {
	All   int
	Full  int
	Low   int
	Empty int
}

// Of returns the count for one status; unknown statuses count zero.
func (c InventoryCounts) Of(s PaintStatus) int {
	switch s {
	case StatusFull:
		return c.Full
	case StatusLow:
		return c.Low
	case StatusEmpty:
		return c.Empty
	}
	return 0
}
