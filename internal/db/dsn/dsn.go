// Package dsn builds driver specific Data Source Names from the configuration.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/folio-cms/folio/internal/config"
)

// mysqlOnly are parameters of the mysql default extras pgx would reject.
var mysqlOnly = map[string]bool{"charset": true, "parseTime": true, "loc": true}

const (
	defaultMySQLPort    = 3306
	defaultPostgresPort = 5432
)

// Create builds the Data Source Name for the configured engine.
// For sqlite it is the database file path.
func Create(cfg *config.DB) string {
	switch cfg.Engine {
	case config.EngineMySQL:
		return MySQL(cfg)
	case config.EnginePostgres:
		return Postgres(cfg)
	default:
		return cfg.Path
	}
}

// MySQL builds a go-sql-driver/mysql DSN.
func MySQL(cfg *config.DB) string {
	port := cfg.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	extras := cfg.Extras
	if extras == "" {
		extras = "charset=utf8mb4&parseTime=True&loc=UTC"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		port,
		cfg.Name,
		extras,
	)
}

// Postgres builds a postgres:// connection URL understood by pgx.
func Postgres(cfg *config.DB) string {
	port := cfg.Port
	if port == 0 || port == defaultMySQLPort {
		port = defaultPostgresPort
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, port),
		Path:   "/" + cfg.Name,
	}

	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}

	// Extras holds additional query parameters, e.g. "application_name=folio"
	for _, kv := range strings.Split(cfg.Extras, "&") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || mysqlOnly[k] {
			continue
		}

		q.Set(k, v)
	}

	u.RawQuery = q.Encode()

	return u.String()
}
