// Package settings serves the key/value overrides and the typed site settings built on them.
package settings

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/db/controller/collection"
	"github.com/folio-cms/folio/internal/db/controller/setting"
	"github.com/folio-cms/folio/internal/db/controller/site"
	"github.com/folio-cms/folio/internal/web/handler"
)

const (
	// Path of the key/value overrides.
	Path = handler.RootPath + "settings"

	// SitePath of the typed site settings.
	SitePath = handler.RootPath + "site"
)

// Service is the settings handler service.
type Service struct {
	handler.Service
	db *gorm.DB
}

// Init registers the settings routes.
func (s *Service) Init(routes *handler.Routes, deps *handler.Deps) error {
	if routes == nil || deps == nil || deps.DB == nil {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.db = deps.DB

	routes.API.Get(Path, s.GetMap)
	routes.API.Get(SitePath, s.GetSite)

	routes.Admin.Get(Path, s.GetAll)
	routes.Admin.Post(Path, s.Save)
	routes.Admin.Put(Path, s.Save)
	routes.Admin.Get(SitePath, s.GetSite)
	routes.Admin.Put(SitePath, s.PutSite)

	return nil
}

// GetMap returns every override as key to value.
func (s *Service) GetMap(c fiber.Ctx) error {
	m, err := setting.Map(s.db)
	if err != nil {
		return err
	}

	return c.JSON(m)
}

// GetAll returns every override as a list of records.
func (s *Service) GetAll(c fiber.Ctx) error {
	all, err := setting.GetAll(s.db)
	if err != nil {
		return err
	}

	return c.JSON(all)
}

// Save upserts every key of the posted object.
func (s *Service) Save(c fiber.Ctx) error {
	values, err := decodeValues(c.Body())
	if err != nil {
		return err
	}

	n, err := setting.SetMany(s.db, values)
	if err != nil {
		return fmt.Errorf("saved %d of %d settings: %w", n, len(values), err)
	}

	log.Info().Int("count", n).Msg("settings saved")

	return handler.OK(c)
}

// GetSite returns the site settings with defaults for everything not overridden.
func (s *Service) GetSite(c fiber.Ctx) error {
	st, err := site.Load(s.db)
	if err != nil {
		return err
	}

	return c.JSON(st)
}

// PutSite saves the fields present in the body, absent fields keep their value.
func (s *Service) PutSite(c fiber.Ctx) error {
	st, err := site.Load(s.db)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(c.Body(), &st); err != nil {
		return collection.ErrInvalidBody
	}

	if err = st.Save(s.db); err != nil {
		return err
	}

	return c.JSON(st)
}

// decodeValues reads a flat json object. Numbers and booleans are stored in their text form.
func decodeValues(body []byte) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, collection.ErrInvalidBody
	}

	values := make(map[string]string, len(raw))

	for key, v := range raw {
		if key == "" {
			return nil, fmt.Errorf("%w: %w", collection.ErrInvalidBody, setting.ErrSettingKeyEmpty)
		}

		switch vv := v.(type) {
		case string:
			values[key] = vv
		case float64:
			values[key] = strconv.FormatFloat(vv, 'f', -1, 64)
		case bool:
			values[key] = strconv.FormatBool(vv)
		case nil:
			values[key] = ""
		default:
			return nil, fmt.Errorf("%w: value of %q is not a scalar", collection.ErrInvalidBody, key)
		}
	}

	return values, nil
}
