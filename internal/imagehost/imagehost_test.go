package imagehost

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/config"
)

type fakeHost struct {
	deleted []string
	prefix  string
	err     error
}

func (f *fakeHost) Upload(context.Context, Upload) (*Result, error) {
	return nil, errors.New("not used")
}

func (f *fakeHost) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)

	return f.err
}

func (f *fakeHost) PublicIDFromURL(u string) (string, bool) {
	return strings.CutPrefix(u, f.prefix)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		ct   string
		size int64
		want error
	}{
		{"jpeg", "image/jpeg", 1024, nil},
		{"png", "image/png", 1024, nil},
		{"gif", "image/gif", 1024, nil},
		{"webp", "image/webp", 1024, nil},
		{"svg", "image/svg+xml", 1024, nil},
		{"bmp", "image/bmp", 1024, nil},
		{"tiff", "image/tiff", 1024, nil},
		{"exactly 10MB", "image/jpeg", MaxUploadSize, nil},
		{"pdf", "application/pdf", 1024, ErrUnsupportedType},
		{"html", "text/html", 1024, ErrUnsupportedType},
		{"empty type", "", 1024, ErrUnsupportedType},
		{"too large", "image/jpeg", MaxUploadSize + 1, ErrTooLarge},
		{"empty file", "image/png", 0, ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.ct, tt.size)
			if tt.want == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType("image/jpeg", "x.png"))
	assert.Equal(t, "image/png", ContentType("IMAGE/PNG; charset=binary", "x"))
	assert.Equal(t, "image/png", ContentType("application/octet-stream", "photo.PNG"))
	assert.Equal(t, "image/svg+xml", ContentType("", "logo.svg"))
	assert.Equal(t, "", ContentType("", "noext"))
}

func TestDeleteByReference(t *testing.T) {
	ctx := context.Background()
	h := &fakeHost{prefix: "/uploads/"}

	require.NoError(t, DeleteByReference(ctx, h, "/uploads/portfolio/abc"))
	require.NoError(t, DeleteByReference(ctx, h, "portfolio/def"))
	require.NoError(t, DeleteByReference(ctx, h, "https://other.example.com/img.jpg"))
	require.NoError(t, DeleteByReference(ctx, h, "/static/img.jpg"))
	require.NoError(t, DeleteByReference(ctx, h, "  "))

	assert.Equal(t, []string{"portfolio/abc", "portfolio/def"}, h.deleted)

	h.err = errors.New("down")
	assert.Error(t, Remover{Host: h}.DeleteReference(ctx, "portfolio/x"))
}

func newDisk(t *testing.T, maxWidth int) *DiskHost {
	t.Helper()

	d, err := NewDiskHost(config.Images{
		Root:          t.TempDir(),
		BaseURL:       "/uploads",
		DefaultFolder: "portfolio",
		MaxWidth:      maxWidth,
		Quality:       80,
	})
	require.NoError(t, err)

	return d
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	return buf.Bytes()
}

func TestDiskUploadScalesAndDeletes(t *testing.T) {
	ctx := context.Background()
	d := newDisk(t, 100)
	data := pngBytes(t, 400, 200)

	res, err := d.Upload(ctx, Upload{
		Filename: "wide.png", ContentType: "image/png", Size: int64(len(data)), Body: bytes.NewReader(data),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.PublicID, "portfolio/"))
	assert.Equal(t, "/uploads/"+res.PublicID+".png", res.URL)

	stored, err := imaging.Open(filepath.Join(d.Root(), filepath.FromSlash(res.PublicID)+".png"))
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Bounds().Dx())
	assert.Equal(t, 50, stored.Bounds().Dy())

	id, ok := d.PublicIDFromURL(res.URL)
	require.True(t, ok)
	assert.Equal(t, res.PublicID, id)

	list, err := d.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.PublicID, list[0].PublicID)

	require.NoError(t, d.Delete(ctx, res.PublicID))
	_, err = os.Stat(filepath.Join(d.Root(), filepath.FromSlash(res.PublicID)+".png"))
	assert.True(t, os.IsNotExist(err))

	// already absent
	require.NoError(t, d.Delete(ctx, res.PublicID))
}

func TestDiskUploadKeepsGIF(t *testing.T) {
	d := newDisk(t, 10)
	data := []byte("GIF89a-not-really-decoded")

	res, err := d.Upload(context.Background(), Upload{
		Filename: "anim.gif", ContentType: "image/gif", Folder: "Blog Covers/2024", Size: int64(len(data)),
		Body: bytes.NewReader(data),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.PublicID, "blog-covers/2024/"))

	got, err := os.ReadFile(filepath.Join(d.Root(), filepath.FromSlash(res.PublicID)+".gif"))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDiskUploadRejects(t *testing.T) {
	d := newDisk(t, 0)

	_, err := d.Upload(context.Background(), Upload{
		Filename: "doc.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("%PDF"),
	})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = d.Upload(context.Background(), Upload{
		Filename: "fake.jpg", ContentType: "image/jpeg", Size: 4, Body: strings.NewReader("nope"),
	})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	list, err := d.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDiskPublicIDs(t *testing.T) {
	d := newDisk(t, 0)

	for _, bad := range []string{"", "../etc/passwd", "/abs", "a/../../b", "*"} {
		assert.ErrorIs(t, d.Delete(context.Background(), bad), ErrInvalidPublicID, bad)
	}

	_, ok := d.PublicIDFromURL("/elsewhere/portfolio/a.jpg")
	assert.False(t, ok)

	_, ok = d.PublicIDFromURL("/uploads/../secret.jpg")
	assert.False(t, ok)

	id, ok := d.PublicIDFromURL("http://localhost:8080/uploads/portfolio/a.jpg")
	require.True(t, ok)
	assert.Equal(t, "portfolio/a", id)
}
