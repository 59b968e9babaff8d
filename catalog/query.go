// ════════════════════════════════════════════════════════════
// CATALOG QUERY
// File: catalog/query.go
// ════════════════════════════════════════════════════════════

package catalog

import (
	"sort"
	"strings"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
)

const (
	DefaultLimit = 24
	MaxLimit     = 60
)

// categoryPriority is the storefront display order. Unlisted categories sort last.
var categoryPriority = map[string]int{
	"iphone":     0,
	"ipad":       1,
	"mac":        2,
	"watch":      3,
	"airpods":    4,
	"accesorios": 5,
}

// normalizeLabel is how categories and conditions are compared on both sides.
func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CategoryRank returns the display rank of category.
func CategoryRank(category string) int {
	if r, ok := categoryPriority[normalizeLabel(category)]; ok {
		return r
	}
	return len(categoryPriority)
}

// Options narrows and pages the catalog. Zero values mean "no filter".
type Options struct {
	Limit     int
	Offset    int
	Category  string
	Condition string
	Featured  *bool
	Search    string
}

// Normalize clamps Limit to [1, MaxLimit] (DefaultLimit when unset) and Offset to >= 0.
func (o Options) Normalize() Options {
	switch {
	case o.Limit <= 0:
		o.Limit = DefaultLimit
	case o.Limit > MaxLimit:
		o.Limit = MaxLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	o.Category = normalizeLabel(o.Category)
	o.Condition = normalizeLabel(o.Condition)
	o.Search = strings.ToLower(strings.TrimSpace(o.Search))
	return o
}

func (o Options) matches(p *models.Product) bool {
	if o.Category != "" && normalizeLabel(p.Category) != o.Category {
		return false
	}
	if o.Condition != "" && normalizeLabel(p.Condition) != o.Condition {
		return false
	}
	if o.Featured != nil && p.Featured != *o.Featured {
		return false
	}
	if o.Search != "" &&
		!strings.Contains(strings.ToLower(p.Name), o.Search) &&
		!strings.Contains(strings.ToLower(p.Description), o.Search) &&
		!strings.Contains(strings.ToLower(p.Category), o.Search) {
		return false
	}
	return true
}

// Filter returns the products matching opts in display order. The snapshot
// is never modified.
func Filter(snap models.Snapshot, opts Options) []models.Product {
	opts = opts.Normalize()

	out := make([]models.Product, 0, len(snap.Data))
	for i := range snap.Data {
		if opts.matches(&snap.Data[i]) {
			out = append(out, snap.Data[i])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := CategoryRank(out[i].Category), CategoryRank(out[j].Category)
		if ri != rj {
			return ri < rj
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Query filters, sorts and pages a snapshot. Total counts every match, not
// just the returned page.
func Query(snap models.Snapshot, opts Options) models.CatalogPage {
	opts = opts.Normalize()
	matched := Filter(snap, opts)

	start := opts.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}

	items := make([]models.ProductSummary, 0, end-start)
	for _, p := range matched[start:end] {
		items = append(items, models.NewProductSummary(p))
	}

	return models.CatalogPage{
		Items:             items,
		Total:             len(matched),
		SupabaseConnected: snap.Connected,
		Timestamp:         snap.FetchedAt.UnixMilli(),
	}
}
