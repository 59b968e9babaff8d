package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// productImagesRoot is the Cloudinary folder holding one subfolder per product.
const productImagesRoot = "manzana/products"

// ImageStore keeps product photos outside the database.
type ImageStore interface {
	UploadProductImages(ctx context.Context, productID uuid.UUID, files []*multipart.FileHeader) ([]string, error)
	DeleteProductImages(ctx context.Context, productID uuid.UUID) error
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryService{cld: cld}, nil
}

// ProductFolder is the Cloudinary folder of one product's photos.
func ProductFolder(productID uuid.UUID) string {
	return path.Join(productImagesRoot, productID.String())
}

// UploadImage uploads a single image to Cloudinary and returns the secure URL
func (s *CloudinaryService) UploadImage(ctx context.Context, file multipart.File, filename string, folder string) (string, error) {
	// Use pointer booleans as required by the cloudinary SDK
	unique := true
	overwrite := false
	uploadParams := uploader.UploadParams{
		Folder:         folder,
		ResourceType:   "image",
		UniqueFilename: &unique,
		Overwrite:      &overwrite,
	}
	if filename != "" {
		uploadParams.PublicID = filename
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("upload successful but no URL returned")
	}
	return result.SecureURL, nil
}

// UploadProductImages uploads the files in order and returns their URLs.
func (s *CloudinaryService) UploadProductImages(ctx context.Context, productID uuid.UUID, files []*multipart.FileHeader) ([]string, error) {
	folder := ProductFolder(productID)
	urls := make([]string, 0, len(files))

	for i, fileHeader := range files {
		url, err := s.uploadHeader(ctx, fileHeader, fmt.Sprintf("%d_%s", i, uuid.NewString()[:8]), folder)
		if err != nil {
			return urls, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *CloudinaryService) uploadHeader(ctx context.Context, fh *multipart.FileHeader, publicID, folder string) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", fh.Filename, err)
	}
	defer file.Close()
	return s.UploadImage(ctx, file, publicID, folder)
}

// DeleteProductImages removes every asset under the product's folder, then the
// folder itself. Cloudinary usually drops empty folders on its own, so a
// failed folder delete is only logged.
func (s *CloudinaryService) DeleteProductImages(ctx context.Context, productID uuid.UUID) error {
	folder := ProductFolder(productID)

	if _, err := s.cld.Admin.DeleteAssetsByPrefix(ctx, admin.DeleteAssetsByPrefixParams{
		Prefix: api.CldAPIArray{folder},
	}); err != nil {
		return fmt.Errorf("failed to delete assets in folder %s: %w", folder, err)
	}

	if _, err := s.cld.Admin.DeleteFolder(ctx, admin.DeleteFolderParams{Folder: folder}); err != nil {
		log.Printf("[cloudinary] ⚠️ could not remove folder %s: %v", folder, err)
	}
	log.Printf("[cloudinary] deleted images of product %s", productID)
	return nil
}
