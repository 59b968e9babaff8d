package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/cache"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/store"
	"github.com/google/uuid"
)

var ErrImagesDisabled = errors.New("image uploads are not configured")

const imageCleanupTimeout = 30 * time.Second

// ProductService is the admin write path for products. Every successful write
// invalidates the products tag so every worker refetches its snapshot.
type ProductService struct {
	writer store.ProductWriter
	images ImageStore
	bus    cache.Invalidator
}

// NewProductService builds the service. images may be nil when Cloudinary is
// not configured.
func NewProductService(writer store.ProductWriter, images ImageStore, bus cache.Invalidator) *ProductService {
	return &ProductService{writer: writer, images: images, bus: bus}
}

func (s *ProductService) Create(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	p := req.ToProduct()
	if err := s.writer.CreateProduct(ctx, &p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create", p.ID)
	return &p, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req models.UpdateProductRequest) (*models.Product, error) {
	p, err := s.writer.UpdateProduct(ctx, id, req.Updates())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update", id)
	return p, nil
}

// Delete removes the row, then its images in the background.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.writer.DeleteProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "delete", id)

	if s.images != nil && len(p.Images) > 0 {
		go func(id uuid.UUID) {
			bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), imageCleanupTimeout)
			defer cancel()
			if err := s.images.DeleteProductImages(bg, id); err != nil {
				log.Printf("[products] ⚠️ image cleanup for %s failed: %v", id, err)
			}
		}(id)
	}
	return p, nil
}

// AddImages uploads files and appends their URLs to the product's images.
func (s *ProductService) AddImages(ctx context.Context, id uuid.UUID, files []*multipart.FileHeader) (*models.Product, error) {
	if s.images == nil {
		return nil, ErrImagesDisabled
	}
	urls, err := s.images.UploadProductImages(ctx, id, files)
	if err != nil {
		return nil, fmt.Errorf("upload images: %w", err)
	}

	p, err := s.writer.AppendProductImages(ctx, id, urls)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// no product owns the folder, so everything in it is what we just uploaded
			cleanup, cancel := context.WithTimeout(context.WithoutCancel(ctx), imageCleanupTimeout)
			defer cancel()
			if cerr := s.images.DeleteProductImages(cleanup, id); cerr != nil {
				log.Printf("[products] ⚠️ removing uploads for missing product %s failed: %v", id, cerr)
			}
		}
		return nil, err
	}
	s.invalidate(ctx, "images", id)
	return p, nil
}

func (s *ProductService) invalidate(ctx context.Context, op string, id uuid.UUID) {
	if err := s.bus.Invalidate(ctx, cache.TagProducts); err != nil {
		log.Printf("[products] ⚠️ %s %s: invalidation failed: %v", op, id, err)
		return
	}
	log.Printf("[products] ✅ %s %s", op, id)
}
