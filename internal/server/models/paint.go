// Package models defines server-side data models persisted in the database
// and the read projections built from them.
package models

import "regexp"

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Paint is a shared, read-only catalog entry. (Brand, Range, Name) is unique.
type Paint struct {
	ID        int64
	Brand     string
	Range     string
	Name      string
	Hex       string
	PaintType string
}

// ValidHex reports whether s is a "#RRGGBB" color.
func ValidHex(s string) bool {
	return hexColorRe.MatchString(s)
}
