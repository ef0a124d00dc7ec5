package main

import (
	"strings"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/http/fileapi"
	"github.com/rise-and-shine/filemanager/http/server"
	"github.com/rise-and-shine/filemanager/idlock"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/pg"
	"github.com/rise-and-shine/filemanager/reconcile"
	"github.com/rise-and-shine/filemanager/tracing"
	"github.com/rise-and-shine/filemanager/val"
)

const (
	storeDriverPostgres = "postgres"
	storeDriverMemory   = "memory"

	lockDriverLocal = "local"
	lockDriverRedis = "redis"
)

// Config is the service configuration read from ./config/${ENVIRONMENT}.yaml.
type Config struct {
	Logger    logger.Config      `yaml:"logger"`
	Tracing   tracing.Config     `yaml:"tracing"`
	HTTP      server.Config      `yaml:"http"`
	API       fileapi.Config     `yaml:"api"`
	Files     filemanager.Config `yaml:"files"`
	Store     StoreConfig        `yaml:"store"`
	Lock      LockConfig         `yaml:"lock"`
	Reconcile reconcile.Config   `yaml:"reconcile"`
}

// StoreConfig selects where file records are kept.
type StoreConfig struct {
	Driver string `yaml:"driver" default:"postgres" validate:"oneof=postgres memory"`

	// Schema holds the file table. It overrides postgres.search_path so that
	// migrations create the table where the store looks for it.
	Schema string `yaml:"schema" default:"public" validate:"required"`

	// Migrate applies pending migrations at startup.
	Migrate bool `yaml:"migrate"`

	// Postgres is validated only when Driver selects it.
	Postgres pg.Config `yaml:"postgres" validate:"-"`
}

// postgresConfig returns the connection settings with Schema as search path.
func (c StoreConfig) postgresConfig() pg.Config {
	cfg := c.Postgres
	cfg.SearchPath = c.Schema
	return cfg
}

func (c StoreConfig) validate() error {
	if c.Driver != storeDriverPostgres {
		return nil
	}
	return validateSection("store.postgres", c.Postgres)
}

// LockConfig selects how requests on the same file are serialized.
type LockConfig struct {
	Driver string `yaml:"driver" default:"local" validate:"oneof=local redis"`

	// Redis is validated only when Driver selects it.
	Redis idlock.RedisConfig `yaml:"redis" validate:"-"`
}

func (c LockConfig) validate() error {
	if c.Driver != lockDriverRedis {
		return nil
	}
	return validateSection("lock.redis", c.Redis)
}

func validateSection(name string, section any) error {
	failed, err := val.Struct(section)
	if err != nil {
		return errx.Wrap(err)
	}
	if len(failed) > 0 {
		return errx.New(
			"invalid "+name+" config: "+strings.Join(failed, ", "),
			errx.WithCode(val.CodeValidationFailed),
			errx.WithType(errx.T_Validation),
		)
	}
	return nil
}
