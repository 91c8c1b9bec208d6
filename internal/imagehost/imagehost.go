// Package imagehost is the boundary to the image hosting collaborator.
// Content rows only carry the references it hands out.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MaxUploadSize is the largest accepted upload, 10 MB.
const MaxUploadSize = 10 << 20

var (
	// ErrUnsupportedType is returned for content types outside the allow-list.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrTooLarge is returned for uploads above MaxUploadSize.
	ErrTooLarge = errors.New("image exceeds the 10MB limit")
	// ErrEmpty is returned for zero byte uploads.
	ErrEmpty = errors.New("image is empty")
	// ErrInvalidPublicID is returned for public ids escaping the host's storage.
	ErrInvalidPublicID = errors.New("invalid public id")

	// allowedTypes is the upload allow-list.
	allowedTypes = map[string]bool{
		"image/jpeg":    true,
		"image/png":     true,
		"image/gif":     true,
		"image/webp":    true,
		"image/svg+xml": true,
		"image/bmp":     true,
		"image/tiff":    true,
	}

	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "image_host_operations_total",
		Help: "Image host calls by operation and result.",
	}, []string{"operation", "result"})
)

// Upload is one file handed to the host.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Folder      string // empty uses the host default
	Body        io.Reader
}

// Result identifies a hosted image.
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Host stores and removes images.
type Host interface {
	// Upload stores the image and returns its references.
	Upload(ctx context.Context, u Upload) (*Result, error)
	// Delete removes the image. An image that does not exist is not an error.
	Delete(ctx context.Context, publicID string) error
	// PublicIDFromURL returns the public id of a URL this host handed out.
	PublicIDFromURL(rawURL string) (string, bool)
}

// ContentType returns the declared type without parameters, falling back to the file extension.
func ContentType(declared, filename string) string {
	ct, _, err := mime.ParseMediaType(declared)
	if err != nil || ct == "" || ct == "application/octet-stream" {
		ct, _, _ = mime.ParseMediaType(mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))))
	}

	return strings.ToLower(ct)
}

// Validate checks type and size before any host call is made.
func Validate(contentType string, size int64) error {
	if !allowedTypes[contentType] {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	if size > MaxUploadSize {
		return ErrTooLarge
	}

	if size <= 0 {
		return ErrEmpty
	}

	return nil
}

// DeleteByReference deletes the image behind a URL or public id.
// URLs of other hosts are left alone.
func DeleteByReference(ctx context.Context, h Host, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}

	if id, ok := h.PublicIDFromURL(ref); ok {
		return observe("delete", h.Delete(ctx, id))
	}

	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "/") {
		return nil
	}

	return observe("delete", h.Delete(ctx, ref))
}

// Remover adapts a Host to the reference based removal content collections use.
type Remover struct {
	Host Host
}

// DeleteReference implements collection.ImageRemover.
func (r Remover) DeleteReference(ctx context.Context, ref string) error {
	return DeleteByReference(ctx, r.Host, ref)
}

func observe(op string, err error) error {
	result := "ok"
	if err != nil {
		result = "error"
	}

	operations.WithLabelValues(op, result).Inc()

	return err
}
