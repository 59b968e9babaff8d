package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ═══════════════════════════════════════════════════════════
// JSONB Type Definitions
// ═══════════════════════════════════════════════════════════

type (
	ImageList []string
	SpecMap   map[string]string
)

const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

// ═══════════════════════════════════════════════════════════
// Main Product Model (GORM)
// ═══════════════════════════════════════════════════════════

type Product struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string    `json:"name" gorm:"not null;index"`
	Description   string    `json:"description" gorm:"not null;default:''"`
	Price         float64   `json:"price" gorm:"type:numeric(14,2);not null;check:price >= 0"`
	OriginalPrice *float64  `json:"original_price,omitempty" gorm:"type:numeric(14,2)"`
	PriceUSD      *float64  `json:"price_usd,omitempty" gorm:"type:numeric(12,2)"`
	Category      string    `json:"category" gorm:"not null;index"`
	Condition     string    `json:"condition" gorm:"not null;default:'new';check:condition IN ('new', 'used')"`
	Images        ImageList `json:"images" gorm:"type:jsonb;not null;default:'[]'"`
	Specs         SpecMap   `json:"specs" gorm:"type:jsonb;not null;default:'{}'"`
	Stock         int       `json:"stock" gorm:"not null;default:0"`
	Featured      bool      `json:"featured" gorm:"not null;default:false;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_products_created_at,sort:desc"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate hook - auto-generate UUID v7
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// PrimaryImage returns the first image reference, or "" when the product has none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ═══════════════════════════════════════════════════════════
// Request Models
// ═══════════════════════════════════════════════════════════

type ProductRequest struct {
	Name          string            `json:"name" binding:"required" example:"iPhone 15 Pro 256GB"`
	Description   string            `json:"description" example:"Titanio natural, batería 100%"`
	Price         float64           `json:"price" binding:"required,min=0" example:"1899999"`
	OriginalPrice *float64          `json:"original_price" binding:"omitempty,min=0"`
	PriceUSD      *float64          `json:"price_usd" binding:"omitempty,min=0" example:"1299"`
	Category      string            `json:"category" binding:"required" example:"iphone"`
	Condition     string            `json:"condition" binding:"omitempty,oneof=new used" example:"new"`
	Images        []string          `json:"images"`
	Specs         map[string]string `json:"specs"`
	Stock         int               `json:"stock" binding:"min=0" example:"3"`
	Featured      bool              `json:"featured"`
}

type UpdateProductRequest struct {
	Name          *string            `json:"name"`
	Description   *string            `json:"description"`
	Price         *float64           `json:"price" binding:"omitempty,min=0"`
	OriginalPrice *float64           `json:"original_price" binding:"omitempty,min=0"`
	PriceUSD      *float64           `json:"price_usd" binding:"omitempty,min=0"`
	Category      *string            `json:"category"`
	Condition     *string            `json:"condition" binding:"omitempty,oneof=new used"`
	Images        *[]string          `json:"images"`
	Specs         *map[string]string `json:"specs"`
	Stock         *int               `json:"stock" binding:"omitempty,min=0"`
	Featured      *bool              `json:"featured"`
}

// ToProduct builds a new row from a create request.
func (r ProductRequest) ToProduct() Product {
	condition := r.Condition
	if condition == "" {
		condition = ConditionNew
	}
	images := ImageList(r.Images)
	if images == nil {
		images = ImageList{}
	}
	specs := SpecMap(r.Specs)
	if specs == nil {
		specs = SpecMap{}
	}
	return Product{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		PriceUSD:      r.PriceUSD,
		Category:      r.Category,
		Condition:     condition,
		Images:        images,
		Specs:         specs,
		Stock:         r.Stock,
		Featured:      r.Featured,
	}
}

// Updates returns the column map for a partial update. Only fields present in
// the request are included.
func (r UpdateProductRequest) Updates() map[string]any {
	updates := make(map[string]any)
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.Price != nil {
		updates["price"] = *r.Price
	}
	if r.OriginalPrice != nil {
		updates["original_price"] = *r.OriginalPrice
	}
	if r.PriceUSD != nil {
		updates["price_usd"] = *r.PriceUSD
	}
	if r.Category != nil {
		updates["category"] = *r.Category
	}
	if r.Condition != nil {
		updates["condition"] = *r.Condition
	}
	if r.Images != nil {
		updates["images"] = ImageList(*r.Images)
	}
	if r.Specs != nil {
		updates["specs"] = SpecMap(*r.Specs)
	}
	if r.Stock != nil {
		updates["stock"] = *r.Stock
	}
	if r.Featured != nil {
		updates["featured"] = *r.Featured
	}
	return updates
}

// ═══════════════════════════════════════════════════════════
// JSONB Scanner/Valuer for GORM (Custom types)
// ═══════════════════════════════════════════════════════════

// ImageList methods
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = make(ImageList, 0)
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ImageList")
	}
	return json.Unmarshal(bytes, l)
}

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// SpecMap methods
func (m *SpecMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(SpecMap)
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan SpecMap")
	}
	return json.Unmarshal(bytes, m)
}

func (m SpecMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(map[string]string{})
	}
	return json.Marshal(m)
}
