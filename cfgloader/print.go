package cfgloader

import (
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/mask"
	"gopkg.in/yaml.v3"
)

func printConfig(env string, cfg any) {
	out, err := Render(cfg)
	if err != nil {
		logger.Named("cfgloader").Warnf("failed to render config: %v", err)
		return
	}
	logger.Named("cfgloader").Infof("loaded %s config:\n%s", env, out)
}

// Render returns cfg as YAML with fields tagged `mask:"true"` hidden.
func Render(cfg any) (string, error) {
	out, err := yaml.Marshal(mask.Fields(cfg))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
