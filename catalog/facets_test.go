package catalog

import (
	"testing"
	"time"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/google/uuid"
)

func TestFacets(t *testing.T) {
	snap := models.Snapshot{
		FetchedAt: time.UnixMilli(42),
		Data: []models.Product{
			{ID: uuid.New(), Name: "Funda", Category: "accesorios", Condition: "new", Price: 20, Stock: 5},
			{ID: uuid.New(), Name: "iPhone 13", Category: "iPhone", Condition: "used", Price: 700, Stock: 0},
			{ID: uuid.New(), Name: "iPhone 15", Category: "iphone", Condition: "new", Price: 1500, Stock: 2},
			{ID: uuid.New(), Name: "Vision Pro", Category: "vision", Condition: "new", Price: 3500, Stock: 1},
			{ID: uuid.New(), Name: "Mac mini", Category: "mac", Condition: "new", Price: 900, Stock: 1},
		},
	}

	meta := Facets(snap, Options{})
	if meta.Availability != (models.AvailabilityData{InStock: 4, OutOfStock: 1}) {
		t.Fatalf("availability = %+v", meta.Availability)
	}
	if meta.PriceRange != (models.PriceRangeData{Min: 20, Max: 3500}) {
		t.Fatalf("price range = %+v", meta.PriceRange)
	}
	wantCats := []models.FacetCount{
		{Value: "iphone", Count: 2},
		{Value: "mac", Count: 1},
		{Value: "accesorios", Count: 1},
		{Value: "vision", Count: 1},
	}
	if len(meta.Categories) != len(wantCats) {
		t.Fatalf("categories = %+v", meta.Categories)
	}
	for i, want := range wantCats {
		if meta.Categories[i] != want {
			t.Fatalf("categories[%d] = %+v, want %+v", i, meta.Categories[i], want)
		}
	}
	if len(meta.Conditions) != 2 || meta.Conditions[0] != (models.FacetCount{Value: "new", Count: 4}) {
		t.Fatalf("conditions = %+v", meta.Conditions)
	}
	if meta.Timestamp != 42 {
		t.Fatalf("timestamp = %d", meta.Timestamp)
	}

	filtered := Facets(snap, Options{Category: "iphone", Limit: 1, Offset: 10})
	if filtered.Availability.InStock+filtered.Availability.OutOfStock != 2 {
		t.Fatalf("filtered availability = %+v (paging must not apply)", filtered.Availability)
	}
	if filtered.PriceRange != (models.PriceRangeData{Min: 700, Max: 1500}) {
		t.Fatalf("filtered price range = %+v", filtered.PriceRange)
	}
}

func TestFacetsEmptySnapshot(t *testing.T) {
	meta := Facets(models.Snapshot{}, Options{})
	if meta.Categories == nil || meta.Conditions == nil {
		t.Fatal("facet lists must encode as [] not null")
	}
	if meta.PriceRange != (models.PriceRangeData{}) {
		t.Fatalf("price range = %+v", meta.PriceRange)
	}
}
