package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxPageSize bounds each range read of the products table.
const MaxPageSize = 1000

// ErrNotFound is returned by product writes targeting a missing row.
var ErrNotFound = errors.New("record not found")

// Provider is the read capability the caches depend on.
type Provider interface {
	// ListProducts returns every product, newest first.
	ListProducts(ctx context.Context) ([]models.Product, error)
	// GetConfigByKey returns the raw document, or nil when the key has never been written.
	GetConfigByKey(ctx context.Context, key string) (json.RawMessage, error)
	// UpsertConfig replaces the document stored under key.
	UpsertConfig(ctx context.Context, key string, value json.RawMessage) error
}

// ProductWriter is the admin write capability for product rows.
type ProductWriter interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	AppendProductImages(ctx context.Context, id uuid.UUID, urls []string) (*models.Product, error)
}

// Postgres reads products through GORM and the site_config table through pgx.
// Either handle may be nil; calls needing a nil handle fail as KindUnavailable.
type Postgres struct {
	db   *gorm.DB
	pool *pgxpool.Pool
}

func NewPostgres(db *gorm.DB, pool *pgxpool.Pool) *Postgres {
	return &Postgres{db: db, pool: pool}
}

func (s *Postgres) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.db == nil {
		return nil, wrap("list_products", ErrNotConfigured)
	}

	products := make([]models.Product, 0, MaxPageSize)
	for offset := 0; ; offset += MaxPageSize {
		page := make([]models.Product, 0, MaxPageSize)
		if err := s.db.WithContext(ctx).
			Order("created_at DESC").
			Order("id DESC").
			Limit(MaxPageSize).
			Offset(offset).
			Find(&page).Error; err != nil {
			return nil, wrap("list_products", err)
		}
		products = append(products, page...)
		if len(page) < MaxPageSize {
			break
		}
	}
	return products, nil
}

func (s *Postgres) GetConfigByKey(ctx context.Context, key string) (json.RawMessage, error) {
	if s.pool == nil {
		return nil, wrap("get_config", ErrNotConfigured)
	}

	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM site_config WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get_config", err)
	}
	return json.RawMessage(raw), nil
}

// UpsertConfig is last-write-wins. Callers doing read-merge-write are not
// protected against a concurrent writer between their read and this upsert.
func (s *Postgres) UpsertConfig(ctx context.Context, key string, value json.RawMessage) error {
	if s.pool == nil {
		return wrap("upsert_config", ErrNotConfigured)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO site_config (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`, key, string(value))
	if err != nil {
		return wrap("upsert_config", err)
	}
	log.Printf("[store] site_config %q upserted (%d bytes)", key, len(value))
	return nil
}

func (s *Postgres) CreateProduct(ctx context.Context, p *models.Product) error {
	if s.db == nil {
		return wrap("create_product", ErrNotConfigured)
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return wrap("create_product", err)
	}
	return nil
}

func (s *Postgres) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error) {
	if s.db == nil {
		return nil, wrap("update_product", ErrNotConfigured)
	}

	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.First(&product, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("update_product", err)
	}
	return &product, nil
}

// AppendProductImages adds urls after the product's current images.
func (s *Postgres) AppendProductImages(ctx context.Context, id uuid.UUID, urls []string) (*models.Product, error) {
	if s.db == nil {
		return nil, wrap("append_images", ErrNotConfigured)
	}

	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		images := make(models.ImageList, 0, len(product.Images)+len(urls))
		images = append(images, product.Images...)
		images = append(images, urls...)
		if err := tx.Model(&product).Update("images", images).Error; err != nil {
			return err
		}
		product.Images = images
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("append_images", err)
	}
	return &product, nil
}

func (s *Postgres) DeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.db == nil {
		return nil, wrap("delete_product", ErrNotConfigured)
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrap("delete_product", err)
	}
	if err := s.db.WithContext(ctx).Delete(&product).Error; err != nil {
		return nil, wrap("delete_product", err)
	}
	return &product, nil
}
