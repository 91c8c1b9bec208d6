// Package config handles input from etc/main.toml, the environment and .env files.
package config

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. FOLIO_DB_ENGINE.
	EnvPrefix = "FOLIO"

	// EnvConfigJSON holds a complete or partial config as JSON merged over the file.
	EnvConfigJSON = "FOLIO_CONFIG_JSON"

	masked = "*****"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	// a missing .env is fine, the file is a development convenience
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Folio")
	v.SetDefault("db.engine", EngineSQLite)
	v.SetDefault("db.path", "./data/folio.db")
	v.SetDefault("webserver.port", 8080)
	v.SetDefault("webserver.url", "http://localhost:8080")
	v.SetDefault("webserver.checkAliveURI", "/checkalive")
	v.SetDefault("webserver.session.expiryTime", "24h")
	v.SetDefault("webserver.session.cookieName", "session")
	v.SetDefault("auth.localDB.enabled", true)
	v.SetDefault("auth.localDB.issuer", "Folio")
	v.SetDefault("admin.initialUsername", "admin")
	v.SetDefault("images.root", "./uploads")
	v.SetDefault("images.baseURL", "/uploads")
	v.SetDefault("images.defaultFolder", "portfolio")
	v.SetDefault("images.maxWidth", 2400)
	v.SetDefault("images.quality", 85)
	v.SetDefault("jobs.orphanGrace", "24h")
	v.SetDefault("log.logLevel", "info")
	v.SetDefault("log.appName", "folio")
	v.SetDefault("log.serviceName", "folio")
	v.SetDefault("log.console.enabled", true)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfigJSON config as JSON String. Secrets are masked.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	out := *c
	maskSecret(&out.DB.Password)
	maskSecret(&out.Auth.LDAP.BindPassword)
	maskSecret(&out.Auth.OIDC.ClientSecret)
	maskSecret(&out.Admin.InitialPassword)

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(out); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func maskSecret(s *string) {
	if *s != "" {
		*s = masked
	}
}

// validate minimal config settings.
// Validates only a very small part of the params and fills in
// defaults the file may have zeroed out.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.Engine {
	case "":
		c.DB.Engine = EngineSQLite
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnknownDBEngine, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = 24 * time.Hour
	}

	if c.Webserver.Session.CookieName == "" {
		c.Webserver.Session.CookieName = "session"
	}

	return nil
}
