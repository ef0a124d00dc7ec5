package mask_test

import (
	"testing"
	"time"

	"github.com/rise-and-shine/filemanager/mask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type database struct {
	Host     string `yaml:"host"`
	Password string `yaml:"password" mask:"true"`
}

type cache struct {
	Addrs string `yaml:"addrs"`
	Token string `yaml:"token" mask:"true"`
}

type Embedded struct {
	Region string `yaml:"region"`
}

type config struct {
	Embedded `yaml:",inline"`

	Name     string        `yaml:"name"`
	Timeout  time.Duration `yaml:"timeout"`
	Database database      `yaml:"database"`
	Cache    *cache        `yaml:"cache"`
	Internal string        `yaml:"-"`
	secret   string
}

func TestFields(t *testing.T) {
	cfg := config{
		Embedded: Embedded{Region: "eu"},
		Name:     "filemanager",
		Timeout:  time.Second,
		Database: database{Host: "db", Password: "hunter2"},
		Cache:    &cache{Addrs: "redis:6379"},
		Internal: "hidden",
		secret:   "x",
	}

	om := mask.Fields(&cfg)
	require.NotNil(t, om)

	var keys []string
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{
		"region", "name", "timeout", "database.host", "database.password", "cache.addrs", "cache.token",
	}, keys)

	get := func(key string) any {
		v, _ := om.Get(key)
		return v
	}
	assert.Equal(t, "eu", get("region"))
	assert.Equal(t, time.Second, get("timeout"))
	assert.Equal(t, mask.Placeholder, get("database.password"))
	assert.Equal(t, "db", get("database.host"))
	assert.Equal(t, "", get("cache.token"), "zero values stay visible")
}

func TestFields_NilPointer(t *testing.T) {
	om := mask.Fields(config{})

	v, ok := om.Get("cache")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Nil(t, mask.Fields(nil))
}
