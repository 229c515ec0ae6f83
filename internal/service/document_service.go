package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/hitchly/hitchly-backend/internal/repository/storage"
)

const (
	MaxImageSize   = 5 * 1024 * 1024 // 5MB
	MinImageWidth  = 50
	MinImageHeight = 50
	ThumbnailWidth = 200
	DisplayWidth   = 800
	JPEGQuality    = 85

	// PresignedURLExpiry is how long generated document links stay valid
	PresignedURLExpiry = 15 * time.Minute
)

var (
	ErrImageTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat             = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrImageTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData          = errors.New("invalid image data")
	ErrImageStorageNotConfigured = errors.New("image storage not configured")
)

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// DocumentMetadata contains presigned URLs for each stored variant
type DocumentMetadata struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// DocumentService handles vendor image processing and storage
type DocumentService struct {
	storage storage.DocumentRepository
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(storage storage.DocumentRepository) *DocumentService {
	return &DocumentService{storage: storage}
}

// IsEnabled indicates whether uploads are supported (storage configured).
func (s *DocumentService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *DocumentService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}

	return img, nil
}

// ProcessAndUpload resizes a vendor image into thumb/display/original
// variants, uploads them, and returns presigned URLs for each.
func (s *DocumentService) ProcessAndUpload(ctx context.Context, workspaceID, vendorID int32, data []byte, filename string) (*DocumentMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrImageStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	imageID := uuid.New().String()

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"display", DisplayWidth},
		{"original", 0}, // 0 means keep original size
	}

	paths := make(map[string]string)
	urls := make(map[string]string)

	for _, variant := range variants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			// Resize maintaining aspect ratio
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := fmt.Sprintf("%d/vendors/%d/%s_%s.jpg", workspaceID, vendorID, imageID, variant.name)

		stored, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanupVariants(ctx, paths)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}
		paths[variant.name] = stored

		url, err := s.storage.GeneratePresignedURL(ctx, stored, PresignedURLExpiry)
		if err != nil {
			s.cleanupVariants(ctx, paths)
			return nil, fmt.Errorf("failed to presign %s variant: %w", variant.name, err)
		}
		urls[variant.name] = url
	}

	return &DocumentMetadata{
		ID:           imageID,
		ThumbnailURL: urls["thumb"],
		DisplayURL:   urls["display"],
		OriginalURL:  urls["original"],
	}, nil
}

// cleanupVariants removes variants uploaded before a failed operation.
// Best effort; errors are ignored.
func (s *DocumentService) cleanupVariants(ctx context.Context, paths map[string]string) {
	for _, p := range paths {
		_ = s.storage.Delete(ctx, p)
	}
}

// DeleteAllVariants deletes all stored variants for an image ID
func (s *DocumentService) DeleteAllVariants(ctx context.Context, workspaceID, vendorID int32, imageID string) error {
	if !s.IsEnabled() {
		return ErrImageStorageNotConfigured
	}

	variants := []string{"thumb", "display", "original"}
	for _, variant := range variants {
		objectPath := fmt.Sprintf("%d/vendors/%d/%s_%s.jpg", workspaceID, vendorID, imageID, variant)
		if err := s.storage.Delete(ctx, objectPath); err != nil {
			continue
		}
	}

	return nil
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
