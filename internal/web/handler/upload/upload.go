// Package upload hands admin image uploads to the image host and removes hosted images.
package upload

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/imagehost"
	"github.com/folio-cms/folio/internal/web/handler"
)

const (
	// Path receives multipart uploads.
	Path = handler.RootPath + "upload"

	// DeletePath removes an image by url or public id.
	DeletePath = handler.RootPath + "delete-image"

	fileField   = "file"
	folderField = "folder"
)

// Service is the upload handler service.
type Service struct {
	handler.Service
	host          imagehost.Host
	defaultFolder string
}

// Init registers the upload routes.
func (s *Service) Init(routes *handler.Routes, deps *handler.Deps) error {
	if routes == nil || deps == nil || deps.Images == nil || deps.Cfg == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.host = deps.Images
	s.defaultFolder = deps.Cfg.Images.DefaultFolder

	routes.Admin.Post(Path, s.Post)
	routes.Admin.Delete(DeletePath, s.Delete)

	return nil
}

// Post validates type and size, then uploads the file.
func (s *Service) Post(c fiber.Ctx) error {
	fh, err := c.FormFile(fileField)
	if err != nil || fh == nil {
		return fiber.NewError(fiber.StatusBadRequest, "No file provided")
	}

	contentType := imagehost.ContentType(fh.Header.Get(fiber.HeaderContentType), fh.Filename)
	if err = imagehost.Validate(contentType, fh.Size); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}

	defer func() {
		if errClose := f.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close upload")
		}
	}()

	folder := c.FormValue(folderField)
	if folder == "" {
		folder = s.defaultFolder
	}

	res, err := s.host.Upload(c.Context(), imagehost.Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Folder:      folder,
		Body:        f,
	})
	if err != nil {
		if isRejection(err) {
			return err
		}

		return fmt.Errorf("%w: %w", handler.ErrImageHost, err)
	}

	log.Info().Str("publicId", res.PublicID).Int64("size", fh.Size).Msg("image uploaded")

	return c.JSON(res)
}

// Delete removes the image named by the publicId or url query parameter.
// Images that are already gone are not an error.
func (s *Service) Delete(c fiber.Ctx) error {
	ref := c.Query("publicId")
	if ref == "" {
		ref = c.Query("url")
	}

	if ref == "" {
		return fiber.NewError(fiber.StatusBadRequest, "url or publicId is required")
	}

	if err := imagehost.DeleteByReference(c.Context(), s.host, ref); err != nil {
		if isRejection(err) {
			return err
		}

		return fmt.Errorf("%w: %w", handler.ErrImageHost, err)
	}

	return handler.OK(c)
}

func isRejection(err error) bool {
	return errors.Is(err, imagehost.ErrUnsupportedType) ||
		errors.Is(err, imagehost.ErrTooLarge) ||
		errors.Is(err, imagehost.ErrEmpty) ||
		errors.Is(err, imagehost.ErrInvalidPublicID)
}
