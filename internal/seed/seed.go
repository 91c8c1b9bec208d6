// Package seed loads content fixtures from a YAML file.
//
// Top level keys are resource names (photos, services, work-steps, ...) holding a list of
// items, and settings holding a key to value map. Items go through the same create path as
// the admin api, so defaults and validation apply.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/controller/setting"
)

const settingsKey = "settings"

// Fixtures are decoded seed data.
type Fixtures struct {
	Items    map[string][]map[string]any
	Settings map[string]string
}

// Result counts what was written.
type Result struct {
	Items    map[string]int
	Settings int
}

// Decode reads fixtures from r. Unknown resource names are rejected.
func Decode(r io.Reader, registry *content.Registry) (*Fixtures, error) {
	var raw map[string]yaml.Node

	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &Fixtures{}, nil
		}

		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	f := &Fixtures{Items: make(map[string][]map[string]any)}

	for key, node := range raw {
		if key == settingsKey {
			var values map[string]any
			if err := node.Decode(&values); err != nil {
				return nil, fmt.Errorf("decode settings: %w", err)
			}

			f.Settings = make(map[string]string, len(values))
			for k, v := range values {
				f.Settings[k] = fmt.Sprint(v)
			}

			continue
		}

		if _, ok := registry.Get(key); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownResource, key)
		}

		var items []map[string]any
		if err := node.Decode(&items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}

		f.Items[key] = items
	}

	return f, nil
}

// Apply creates every item and upserts the settings. Resources are seeded in registry order
// and the first failing item stops the run.
func Apply(ctx context.Context, db *gorm.DB, registry *content.Registry, f *Fixtures) (*Result, error) {
	res := &Result{Items: make(map[string]int)}

	for _, r := range registry.All() {
		name := r.Spec().Name

		for i, item := range f.Items[name] {
			body, err := json.Marshal(item)
			if err != nil {
				return res, fmt.Errorf("%s[%d]: %w", name, i, err)
			}

			if _, err = r.Create(ctx, body); err != nil {
				return res, fmt.Errorf("%s[%d]: %w", name, i, err)
			}

			res.Items[name]++
		}
	}

	if len(f.Settings) > 0 {
		n, err := setting.SetMany(db.WithContext(ctx), f.Settings)
		if err != nil {
			return res, fmt.Errorf("settings: %w", err)
		}

		res.Settings = n
	}

	names := make([]string, 0, len(res.Items))
	for name := range res.Items {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		log.Info().Str("resource", name).Int("items", res.Items[name]).Msg("seeded")
	}

	log.Info().Int("settings", res.Settings).Msg("seeded settings")

	return res, nil
}

// File decodes and applies the fixtures in path.
func File(ctx context.Context, db *gorm.DB, registry *content.Registry, path string) (*Result, error) {
	fh, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer fh.Close()

	f, err := Decode(fh, registry)
	if err != nil {
		return nil, err
	}

	return Apply(ctx, db, registry, f)
}
