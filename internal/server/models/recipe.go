package models

// Recipe is a named mix owned by one user.
type Recipe struct {
	ID     int64
	UserID string
	Name   string
	Note   string
}

// RecipeComponent is one (paint, ratio) part of a recipe. Ratio counts parts.
type RecipeComponent struct {
	ID       int64
	RecipeID int64
	PaintID  int64
	Ratio    int
}

// ComponentWithPaint is a component joined with its catalog paint.
type ComponentWithPaint struct {
	Component RecipeComponent
	Paint     Paint
}

// RecipeWithComponents is a recipe and its components in insertion order.
type RecipeWithComponents struct {
	Recipe     Recipe
	Components []ComponentWithPaint
}

// TotalRatio sums the ratios of all components.
func (r RecipeWithComponents) TotalRatio() int {
	total := 0
	for _, c := range r.Components {
		total += c.Component.Ratio
	}
	return total
}
