package cfgloader_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/cfgloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dbConfig struct {
	Host     string `yaml:"host"     validate:"required"`
	Password string `yaml:"password" mask:"true"`
}

type appConfig struct {
	Name    string        `yaml:"name"    default:"filemanager"`
	Timeout time.Duration `yaml:"timeout" default:"5s"`
	DB      dbConfig      `yaml:"db"`
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("DB_PASSWORD", "hunter2")
	path := writeConfig(t, "db:\n  host: localhost\n  password: ${DB_PASSWORD}\n")

	cfg, err := cfgloader.Load[appConfig](path)
	require.NoError(t, err)

	assert.Equal(t, "filemanager", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "hunter2", cfg.DB.Password)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			code: cfgloader.CodeFileNotFound,
		},
		{
			name: "broken yaml",
			path: func(t *testing.T) string { return writeConfig(t, "db: [") },
			code: cfgloader.CodeUnmarshalFailed,
		},
		{
			name: "failed validation",
			path: func(t *testing.T) string { return writeConfig(t, "name: x\n") },
			code: cfgloader.CodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cfgloader.Load[appConfig](tt.path(t))
			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, tt.code), "got %v", err)
		})
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "local")
	env, err := cfgloader.Environment()
	require.NoError(t, err)
	assert.Equal(t, cfgloader.EnvLocal, env)

	t.Setenv("ENVIRONMENT", "moon")
	_, err = cfgloader.Environment()
	assert.True(t, errx.IsCodeIn(err, cfgloader.CodeInvalidEnvironment))
}

func TestRender_MasksSecrets(t *testing.T) {
	out, err := cfgloader.Render(appConfig{Name: "fm", DB: dbConfig{Host: "db", Password: "hunter2"}})
	require.NoError(t, err)

	assert.Contains(t, out, "db.host: db")
	assert.NotContains(t, out, "hunter2")
}
