package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/imagehost"
	"github.com/folio-cms/folio/internal/web/handler/handlertest"
)

func multipartRequest(t *testing.T, filename, contentType string, data []byte, folder string) *http.Request {
	t.Helper()

	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)

	if folder != "" {
		require.NoError(t, w.WriteField("folder", folder))
	}

	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return req
}

func TestUpload(t *testing.T) {
	env := handlertest.New(t)
	env.Init(t, &Service{})
	cookie := env.Login(t)

	req := multipartRequest(t, "a.png", "image/png", []byte("png-bytes"), "")
	status, _ := env.Send(t, req)
	assert.Equal(t, http.StatusUnauthorized, status)

	req = multipartRequest(t, "a.png", "image/png", []byte("png-bytes"), "")
	req.AddCookie(cookie)
	status, body := env.Send(t, req)
	require.Equal(t, http.StatusOK, status, string(body))

	var res imagehost.Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "portfolio/a.png", res.PublicID)
	assert.Equal(t, "/uploads/portfolio/a.png", res.URL)

	req = multipartRequest(t, "b.jpg", "image/jpeg", []byte("jpg"), "weddings")
	req.AddCookie(cookie)
	status, _ = env.Send(t, req)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, env.Host.Uploaded, 2)
	assert.Equal(t, "weddings", env.Host.Uploaded[1].Folder)
	assert.Equal(t, "image/jpeg", env.Host.Uploaded[1].ContentType)
}

func TestUploadRejections(t *testing.T) {
	env := handlertest.New(t)
	env.Init(t, &Service{})
	cookie := env.Login(t)

	req := multipartRequest(t, "doc.pdf", "application/pdf", []byte("%PDF"), "")
	req.AddCookie(cookie)
	status, body := env.Send(t, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "unsupported image type")

	req = multipartRequest(t, "empty.png", "image/png", nil, "")
	req.AddCookie(cookie)
	status, _ = env.Send(t, req)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.Do(t, http.MethodPost, "/api/admin/upload", `{}`, cookie)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "No file provided")

	assert.Empty(t, env.Host.Uploaded, "rejected files never reach the host")

	env.Host.UploadErr = errors.New("disk full")
	req = multipartRequest(t, "a.png", "image/png", []byte("png"), "")
	req.AddCookie(cookie)
	status, _ = env.Send(t, req)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestDeleteImage(t *testing.T) {
	env := handlertest.New(t)
	env.Init(t, &Service{})
	cookie := env.Login(t)

	status, body := env.Do(t, http.MethodDelete, "/api/admin/delete-image?url=/uploads/portfolio/a.png", nil, cookie)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"success":true}`, string(body))

	status, _ = env.Do(t, http.MethodDelete, "/api/admin/delete-image?publicId=portfolio/b", nil, cookie)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.Do(t, http.MethodDelete, "/api/admin/delete-image?url=https://cdn.other.test/x.jpg", nil, cookie)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, []string{"portfolio/a.png", "portfolio/b"}, env.Host.Deleted)

	status, _ = env.Do(t, http.MethodDelete, "/api/admin/delete-image", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, status)

	env.Host.DeleteErr = errors.New("host down")
	status, _ = env.Do(t, http.MethodDelete, "/api/admin/delete-image?publicId=portfolio/c", nil, cookie)
	assert.Equal(t, http.StatusBadGateway, status)
}
