package models

// RangeGroup holds items of one product range.
type RangeGroup[T any] struct {
	Range string
	Items []T
}

// BrandGroup holds the ranges of one brand.
type BrandGroup[T any] struct {
	Brand  string
	Ranges []RangeGroup[T]
}

// GroupByBrandRange groups items already sorted by (brand, range, name),
// keeping that order. paintOf extracts the paint an item belongs to.
func GroupByBrandRange[T any](items []T, paintOf func(T) Paint) []BrandGroup[T] {
	var groups []BrandGroup[T]
	for _, item := range items {
		p := paintOf(item)
		if len(groups) == 0 || groups[len(groups)-1].Brand != p.Brand {
			groups = append(groups, BrandGroup[T]{Brand: p.Brand})
		}
		brand := &groups[len(groups)-1]
		if len(brand.Ranges) == 0 || brand.Ranges[len(brand.Ranges)-1].Range != p.Range {
			brand.Ranges = append(brand.Ranges, RangeGroup[T]{Range: p.Range})
		}
		rg := &brand.Ranges[len(brand.Ranges)-1]
		rg.Items = append(rg.Items, item)
	}
	return groups
}
