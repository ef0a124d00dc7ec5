// Package cfgloader loads and validates configuration at application start.
package cfgloader

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/val"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

// Error codes returned by Load.
const (
	CodeInvalidEnvironment = "CONFIG_INVALID_ENVIRONMENT"
	CodeFileNotFound       = "CONFIG_FILE_NOT_FOUND"
	CodeReadFailed         = "CONFIG_READ_FAILED"
	CodeUnmarshalFailed    = "CONFIG_UNMARSHAL_FAILED"
	CodeDefaultsFailed     = "CONFIG_DEFAULTS_FAILED"
	CodeInvalidConfig      = "CONFIG_INVALID"
)

// MustLoad loads ./config/${ENVIRONMENT}.yaml into T, printing the masked
// result, and exits the process when anything is wrong. A .env file in the
// working directory is loaded into the environment first.
//
// Example:
//
//	type Config struct {
//	    Host string `yaml:"host" validate:"required"`
//	    Port int    `yaml:"port" default:"8080"`
//	}
func MustLoad[T any](opts ...Option) T {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	_ = godotenv.Load()

	env, err := Environment()
	if err != nil {
		logger.Fatalx(err)
	}

	cfg, err := Load[T](fmt.Sprintf("./config/%s.yaml", env))
	if err != nil {
		logger.Fatalx(err)
	}

	if !o.Silent {
		printConfig(env, &cfg)
	}

	return cfg
}

// Environment returns the value of ENVIRONMENT, which must be one of the
// Env* constants.
func Environment() (string, error) {
	env := os.Getenv("ENVIRONMENT")
	choices := []string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}
	if !slices.Contains(choices, env) {
		return "", errx.New(
			"ENVIRONMENT env variable is not set or invalid",
			errx.WithCode(CodeInvalidEnvironment),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"value": env, "choices": strings.Join(choices, ", ")}),
		)
	}
	return env, nil
}

// Load reads the YAML file at path into a T. ${VAR} references are expanded
// from the environment, `default` tags fill unset fields and `validate` tags
// are checked last.
func Load[T any](path string) (T, error) {
	var cfg T

	if reflect.TypeOf(cfg) == nil || reflect.TypeOf(cfg).Kind() == reflect.Pointer {
		return cfg, errx.New("config type must be a non-pointer struct", errx.WithCode(CodeInvalidConfig))
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, errx.New(
			"config file not found, make sure a yaml file exists for each environment",
			errx.WithCode(CodeFileNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"path": path}),
		)
	}
	if err != nil {
		return cfg, errx.Wrap(err, errx.WithCode(CodeReadFailed), errx.WithDetails(errx.D{"path": path}))
	}

	data = []byte(os.ExpandEnv(string(data)))

	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errx.Wrap(err, errx.WithCode(CodeUnmarshalFailed), errx.WithDetails(errx.D{"path": path}))
	}

	if err = defaults.Set(&cfg); err != nil {
		return cfg, errx.Wrap(err, errx.WithCode(CodeDefaultsFailed))
	}

	failed, err := val.Struct(&cfg)
	if err != nil {
		return cfg, errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}
	if len(failed) > 0 {
		return cfg, errx.New(
			"invalid config fields: "+strings.Join(failed, ", "),
			errx.WithCode(CodeInvalidConfig),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"path": path}),
		)
	}

	return cfg, nil
}
