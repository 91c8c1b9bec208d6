package config

const (
	// EngineSQLite stores everything in a single file through a pure go driver.
	EngineSQLite = "sqlite"
	// EngineMySQL uses gorm's mysql driver.
	EngineMySQL = "mysql"
	// EnginePostgres uses gorm's postgres driver.
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string
	Path     string // sqlite database file
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}
