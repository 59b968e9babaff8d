// ════════════════════════════════════════════════════════════
// STOREFRONT MODELS
// File: models/storefront.go
// ════════════════════════════════════════════════════════════

package models

import (
	"encoding/json"
	"time"
)

// Snapshot is an immutable, timestamped copy of the full product set.
// Holders must treat Data as read-only.
type Snapshot struct {
	Data      []Product
	FetchedAt time.Time
	Connected bool
}

type snapshotJSON struct {
	Data      []Product `json:"data"`
	FetchedAt int64     `json:"fetchedAt"`
	Connected bool      `json:"connected"`
}

// MarshalJSON encodes FetchedAt as unix milliseconds.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	data := s.Data
	if data == nil {
		data = []Product{}
	}
	return json.Marshal(snapshotJSON{
		Data:      data,
		FetchedAt: s.FetchedAt.UnixMilli(),
		Connected: s.Connected,
	})
}

func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.Data = raw.Data
	s.FetchedAt = time.UnixMilli(raw.FetchedAt)
	s.Connected = raw.Connected
	return nil
}

// ProductSummary is the thin catalog card shown on listing pages.
type ProductSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	PriceUSD      *float64  `json:"price_usd,omitempty"`
	Category      string    `json:"category"`
	Condition     string    `json:"condition"`
	Image         string    `json:"image"`
	Images        []string  `json:"images"`
	Stock         int       `json:"stock"`
	InStock       bool      `json:"in_stock"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewProductSummary copies the listing fields out of a product row.
func NewProductSummary(p Product) ProductSummary {
	images := make([]string, len(p.Images))
	copy(images, p.Images)
	return ProductSummary{
		ID:            p.ID.String(),
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		PriceUSD:      p.PriceUSD,
		Category:      p.Category,
		Condition:     p.Condition,
		Image:         p.PrimaryImage(),
		Images:        images,
		Stock:         p.Stock,
		InStock:       p.Stock > 0,
		Featured:      p.Featured,
		CreatedAt:     p.CreatedAt,
	}
}

// CatalogPage is one page of the filtered, sorted catalog.
// SupabaseConnected keeps the field name storefront clients already read.
type CatalogPage struct {
	Items             []ProductSummary `json:"items"`
	Total             int              `json:"total"`
	SupabaseConnected bool             `json:"supabaseConnected"`
	Timestamp         int64            `json:"timestamp"`
}

// ═══════════════════════════════════════════════════════════
// Filter metadata
// ═══════════════════════════════════════════════════════════

// FilterMetadata feeds the storefront filter sidebar.
type FilterMetadata struct {
	Availability AvailabilityData `json:"availability"`
	Categories   []FacetCount     `json:"categories"`
	Conditions   []FacetCount     `json:"conditions"`
	PriceRange   PriceRangeData   `json:"price_range"`
	Timestamp    int64            `json:"timestamp"`
}

type AvailabilityData struct {
	InStock    int `json:"in_stock"`
	OutOfStock int `json:"out_of_stock"`
}

type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type PriceRangeData struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
