package pg

import (
	"strconv"
	"strings"
	"time"
)

// Config holds the connection and pool settings of a PostgreSQL database.
type Config struct {
	// Debug logs every query through hooks.DebugHook.
	Debug bool `yaml:"debug" default:"false"`

	Host     string `yaml:"host"     validate:"required"`
	Port     int    `yaml:"port"     validate:"required"`
	User     string `yaml:"user"     validate:"required"`
	Password string `yaml:"password" validate:"required" mask:"true"`
	Database string `yaml:"database" validate:"required"`

	SSLMode string `yaml:"sslmode" default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`

	// SearchPath is the schema list unqualified names resolve against.
	SearchPath string `yaml:"search_path" default:"public"`

	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`

	PoolMaxConns        int32         `yaml:"pool_max_conns"          default:"4"`
	PoolMinConns        int32         `yaml:"pool_min_conns"          default:"1"`
	PoolMaxConnLifetime time.Duration `yaml:"pool_max_conn_lifetime"  default:"1h"`
	PoolMaxConnIdleTime time.Duration `yaml:"pool_max_conn_idle_time" default:"30m"`
}

// dsn returns a keyword/value connection string. Values are quoted, so
// passwords may contain spaces and quotes.
func (c Config) dsn() string {
	pairs := []struct{ key, value string }{
		{"host", c.Host},
		{"port", strconv.Itoa(c.Port)},
		{"user", c.User},
		{"password", c.Password},
		{"dbname", c.Database},
		{"sslmode", c.SSLMode},
		{"search_path", c.SearchPath},
		{"connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds()))},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+quoteDSNValue(p.value))
	}
	return strings.Join(parts, " ")
}

//nolint:gochecknoglobals // static replacer
var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSNValue(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}
