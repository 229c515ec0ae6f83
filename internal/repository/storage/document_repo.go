package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// DocumentRepository defines the interface for vendor document/image storage
type DocumentRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// GenerateObjectPath creates a unique object path for a vendor upload.
// Layout: <workspace>/vendors/<vendorID>/<uuid>_<variant>.<ext>
func GenerateObjectPath(workspaceID int32, vendorID int32, variant string, ext string) string {
	id := uuid.New().String()
	filename := fmt.Sprintf("%s_%s%s", id, variant, ext)
	return path.Join(fmt.Sprintf("%d", workspaceID), "vendors", fmt.Sprintf("%d", vendorID), filename)
}
