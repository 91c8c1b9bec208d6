package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folio-cms/folio/internal/config"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DB
		want string
	}{
		{
			name: "sqlite is the file path",
			cfg:  config.DB{Engine: config.EngineSQLite, Path: "./data/folio.db"},
			want: "./data/folio.db",
		},
		{
			name: "mysql with defaults",
			cfg:  config.DB{Engine: config.EngineMySQL, Host: "db", User: "u", Password: "p", Name: "folio"},
			want: "u:p@tcp(db:3306)/folio?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name: "mysql with extras",
			cfg: config.DB{
				Engine: config.EngineMySQL, Host: "db", Port: 3307, User: "u", Password: "p", Name: "folio",
				Extras: "parseTime=True",
			},
			want: "u:p@tcp(db:3307)/folio?parseTime=True",
		},
		{
			name: "postgres replaces the mysql default port",
			cfg: config.DB{
				Engine: config.EnginePostgres, Host: "db", Port: 3306, User: "u", Password: "p@ss", Name: "folio",
				SSLMode: "disable", Extras: "charset=utf8mb4&parseTime=True&loc=UTC",
			},
			want: "postgres://u:p%40ss@db:5432/folio?sslmode=disable",
		},
		{
			name: "postgres keeps extra parameters",
			cfg: config.DB{
				Engine: config.EnginePostgres, Host: "db", Port: 6432, User: "u", Password: "p", Name: "folio",
				Extras: "application_name=folio",
			},
			want: "postgres://u:p@db:6432/folio?application_name=folio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Create(&tt.cfg))
		})
	}
}
