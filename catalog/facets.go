package catalog

import (
	"sort"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
)

// Facets summarises the products matching opts for the filter sidebar.
// Paging in opts is ignored.
func Facets(snap models.Snapshot, opts Options) models.FilterMetadata {
	opts = opts.Normalize()

	meta := models.FilterMetadata{
		Categories: []models.FacetCount{},
		Conditions: []models.FacetCount{},
		Timestamp:  snap.FetchedAt.UnixMilli(),
	}
	categories := map[string]int{}
	conditions := map[string]int{}

	first := true
	for i := range snap.Data {
		p := &snap.Data[i]
		if !opts.matches(p) {
			continue
		}
		if p.Stock > 0 {
			meta.Availability.InStock++
		} else {
			meta.Availability.OutOfStock++
		}
		categories[normalizeLabel(p.Category)]++
		conditions[normalizeLabel(p.Condition)]++

		if first || p.Price < meta.PriceRange.Min {
			meta.PriceRange.Min = p.Price
		}
		if first || p.Price > meta.PriceRange.Max {
			meta.PriceRange.Max = p.Price
		}
		first = false
	}

	for v, n := range categories {
		meta.Categories = append(meta.Categories, models.FacetCount{Value: v, Count: n})
	}
	sort.Slice(meta.Categories, func(i, j int) bool {
		a, b := meta.Categories[i].Value, meta.Categories[j].Value
		if ra, rb := CategoryRank(a), CategoryRank(b); ra != rb {
			return ra < rb
		}
		return a < b
	})

	for v, n := range conditions {
		meta.Conditions = append(meta.Conditions, models.FacetCount{Value: v, Count: n})
	}
	sort.Slice(meta.Conditions, func(i, j int) bool {
		return meta.Conditions[i].Value < meta.Conditions[j].Value
	})
	return meta
}
