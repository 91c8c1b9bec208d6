package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp" // webp decoder

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/slug"
)

const (
	defaultQuality = 85
	dirPerm        = 0o750
	filePerm       = 0o640
)

// Stored describes an image on disk.
type Stored struct {
	PublicID string
	ModTime  time.Time
}

// DiskHost keeps images below a directory served under BaseURL.
// Raster images wider than MaxWidth are scaled down and re-encoded.
type DiskHost struct {
	root          string
	baseURL       string
	basePath      string
	defaultFolder string
	maxWidth      int
	quality       int
}

// NewDiskHost creates the root directory and returns the host.
func NewDiskHost(cfg config.Images) (*DiskHost, error) {
	if cfg.Root == "" {
		cfg.Root = "./uploads"
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "/uploads"
	}

	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = defaultQuality
	}

	folder := cleanFolder(cfg.DefaultFolder)
	if folder == "" {
		folder = "portfolio"
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("image root: %w", err)
	}

	if err = os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("create image root: %w", err)
	}

	base := strings.TrimRight(cfg.BaseURL, "/")

	basePath := base
	if u, err := url.Parse(base); err == nil {
		basePath = u.Path
	}

	return &DiskHost{
		root:          root,
		baseURL:       base,
		basePath:      strings.TrimRight(basePath, "/"),
		defaultFolder: folder,
		maxWidth:      cfg.MaxWidth,
		quality:       cfg.Quality,
	}, nil
}

// Root returns the directory images are stored in.
func (d *DiskHost) Root() string {
	return d.root
}

// Upload implements Host.
func (d *DiskHost) Upload(_ context.Context, u Upload) (*Result, error) {
	ct := ContentType(u.ContentType, u.Filename)
	if err := Validate(ct, u.Size); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(u.Body, MaxUploadSize+1))
	if err != nil {
		return nil, observe("upload", fmt.Errorf("read upload: %w", err))
	}

	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	data, ext, err := d.process(ct, data)
	if err != nil {
		return nil, observe("upload", err)
	}

	folder := cleanFolder(u.Folder)
	if folder == "" {
		folder = d.defaultFolder
	}

	publicID := folder + "/" + uuid.NewString()
	target := filepath.Join(d.root, filepath.FromSlash(publicID)+ext)

	if err = os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return nil, observe("upload", fmt.Errorf("create folder: %w", err))
	}

	if err = os.WriteFile(target, data, filePerm); err != nil {
		return nil, observe("upload", fmt.Errorf("write image: %w", err))
	}

	log.Debug().Str("publicId", publicID).Int("bytes", len(data)).Msg("image stored")

	return &Result{URL: d.baseURL + "/" + publicID + ext, PublicID: publicID}, observe("upload", nil)
}

// process scales and re-encodes raster images. GIF and SVG are kept byte for byte.
func (d *DiskHost) process(ct string, data []byte) ([]byte, string, error) {
	switch ct {
	case "image/gif":
		return data, ".gif", nil
	case "image/svg+xml":
		return data, ".svg", nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnsupportedType, err)
	}

	if d.maxWidth > 0 && img.Bounds().Dx() > d.maxWidth {
		img = imaging.Resize(img, d.maxWidth, 0, imaging.Lanczos)
	}

	// png and webp may carry transparency
	if ct == "image/png" || ct == "image/webp" {
		return encode(img, imaging.PNG, ".png")
	}

	return encode(img, imaging.JPEG, ".jpg", imaging.JPEGQuality(d.quality))
}

func encode(img image.Image, format imaging.Format, ext string, opts ...imaging.EncodeOption) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), ext, nil
}

// Delete implements Host.
func (d *DiskHost) Delete(_ context.Context, publicID string) error {
	base, err := d.path(publicID)
	if err != nil {
		return err
	}

	matches, err := filepath.Glob(base + ".*")
	if err != nil {
		return fmt.Errorf("find image: %w", err)
	}

	for _, m := range matches {
		if err = os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove image: %w", err)
		}
	}

	return nil
}

// PublicIDFromURL implements Host.
func (d *DiskHost) PublicIDFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	if strings.HasPrefix(d.baseURL, "http") && u.Host != "" {
		base, err := url.Parse(d.baseURL)
		if err != nil || !strings.EqualFold(base.Host, u.Host) {
			return "", false
		}
	}

	rest, ok := strings.CutPrefix(u.Path, d.basePath+"/")
	if !ok || rest == "" {
		return "", false
	}

	id := strings.TrimSuffix(rest, path.Ext(rest))
	if _, err = d.path(id); err != nil {
		return "", false
	}

	return id, true
}

// List returns every stored image.
func (d *DiskHost) List(ctx context.Context) ([]Stored, error) {
	var out []Stored

	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if entry.IsDir() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}

		rel = filepath.ToSlash(rel)
		out = append(out, Stored{PublicID: strings.TrimSuffix(rel, path.Ext(rel)), ModTime: info.ModTime()})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	return out, nil
}

// path returns the file path of publicID without extension.
func (d *DiskHost) path(publicID string) (string, error) {
	if publicID == "" || strings.Contains(publicID, "..") || strings.HasPrefix(publicID, "/") ||
		strings.ContainsAny(publicID, `\*?[`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPublicID, publicID)
	}

	p := filepath.Join(d.root, filepath.FromSlash(publicID))
	if !strings.HasPrefix(p, d.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPublicID, publicID)
	}

	return p, nil
}

// cleanFolder turns a client supplied folder into slash separated slugs.
func cleanFolder(folder string) string {
	parts := strings.Split(folder, "/")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if s := slug.Make(p); s != "" {
			out = append(out, s)
		}
	}

	return strings.Join(out, "/")
}
