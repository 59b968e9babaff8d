package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/config"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// init loads environment variables
func init() {
	_ = godotenv.Load()
}

// seedFile is the YAML layout of the catalog seed.
type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	Price         float64           `yaml:"price"`
	OriginalPrice *float64          `yaml:"original_price"`
	PriceUSD      *float64          `yaml:"price_usd"`
	Category      string            `yaml:"category"`
	Condition     string            `yaml:"condition"`
	Images        []string          `yaml:"images"`
	Specs         map[string]string `yaml:"specs"`
	Stock         int               `yaml:"stock"`
	Featured      bool              `yaml:"featured"`
}

func (p seedProduct) request() models.ProductRequest {
	return models.ProductRequest{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		PriceUSD:      p.PriceUSD,
		Category:      p.Category,
		Condition:     p.Condition,
		Images:        p.Images,
		Specs:         p.Specs,
		Stock:         p.Stock,
		Featured:      p.Featured,
	}
}

// main migrates the schema, seeds the catalog and writes the default config
// documents. Existing products (by name) and config documents are left alone.
// Usage: go run ./cmd/seed -file cmd/seed/products.yaml
func main() {
	file := flag.String("file", "cmd/seed/products.yaml", "YAML catalog to seed")
	skipProducts := flag.Bool("config-only", false, "only migrate and write default config documents")
	flag.Parse()

	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println("MANZANA STOREFRONT - Seeder")
	fmt.Println("════════════════════════════════════════════════════════════")

	config.InitDB()
	defer config.CloseDB()
	if config.Gorm == nil {
		log.Fatal("❌ Database not available")
	}

	if err := config.Gorm.AutoMigrate(&models.Product{}, &models.SiteConfig{}); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✓ Schema migrated")

	if !*skipProducts {
		seed, err := loadSeed(*file)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		created, skipped, err := seedProducts(config.Gorm, seed.Products)
		if err != nil {
			log.Fatalf("❌ Seeding products failed: %v", err)
		}
		log.Printf("✓ Products: %d created, %d already present", created, skipped)
	}

	written, err := seedConfigDefaults(config.Gorm)
	if err != nil {
		log.Fatalf("❌ Seeding config failed: %v", err)
	}
	log.Printf("✓ Config documents: %d written", written)

	fmt.Println()
	fmt.Println("✅ Seed complete. Running servers pick the changes up when their caches expire,")
	fmt.Println("   or immediately after POST /api/v1/admin/cache/revalidate.")
}

func loadSeed(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, p := range seed.Products {
		if p.Name == "" || p.Category == "" {
			return nil, fmt.Errorf("product #%d: name and category are required", i+1)
		}
		if p.Price < 0 || p.Stock < 0 {
			return nil, fmt.Errorf("product %q: price and stock must not be negative", p.Name)
		}
	}
	return &seed, nil
}

func seedProducts(db *gorm.DB, products []seedProduct) (created, skipped int, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, sp := range products {
			var existing models.Product
			err := tx.Where("name = ?", sp.Name).First(&existing).Error
			if err == nil {
				skipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			p := sp.request().ToProduct()
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("create %q: %w", sp.Name, err)
			}
			created++
		}
		return nil
	})
	return created, skipped, err
}

// seedConfigDefaults inserts the built-in document for every key that has none.
func seedConfigDefaults(db *gorm.DB) (int, error) {
	defaults := map[string]any{
		models.ConfigKeyHome:         models.DefaultHomeConfig(),
		models.ConfigKeyTradeIn:      models.DefaultTradeInConfig(),
		models.ConfigKeyInstallments: models.DefaultInstallmentConfig(),
		models.ConfigKeyDollar:       models.DefaultDollarConfig(),
	}

	written := 0
	for key, doc := range defaults {
		raw, err := json.Marshal(doc)
		if err != nil {
			return written, err
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.SiteConfig{Key: key, Value: datatypes.JSON(raw)})
		if res.Error != nil {
			return written, fmt.Errorf("insert %s: %w", key, res.Error)
		}
		written += int(res.RowsAffected)
	}
	return written, nil
}
