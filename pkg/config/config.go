package config

import (
	"os"

	"github.com/railhop/railhop/pkg/util"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// OperatorFeed is one operator's schedule feed directory.
type OperatorFeed struct {
	Code      string `yaml:"code"`
	Directory string `yaml:"directory"`
}

type Config struct {
	Feeds []OperatorFeed `yaml:"feeds"`

	StationManifest string `yaml:"stationManifest"`
	OperatorMapping string `yaml:"operatorMapping"`

	ArtifactDirectory string `yaml:"artifactDirectory"`

	Listen       string `yaml:"listen"`
	RedisAddress string `yaml:"redisAddress"`

	TarifIndex string `yaml:"tarifIndex"`
}

// Load reads the YAML configuration file and applies environment
// variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ArtifactDirectory: "data/artifacts",
		Listen:            ":8080",
	}

	if path != "" {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(body, cfg); err != nil {
			return nil, err
		}

		log.Debug().Str("path", path).Msg("Loaded configuration file")
	}

	env := util.GetEnvironmentVariables()

	if env["RAILHOP_ARTIFACT_DIRECTORY"] != "" {
		cfg.ArtifactDirectory = env["RAILHOP_ARTIFACT_DIRECTORY"]
	}
	if env["RAILHOP_LISTEN"] != "" {
		cfg.Listen = env["RAILHOP_LISTEN"]
	}
	if env["RAILHOP_REDIS_ADDRESS"] != "" {
		cfg.RedisAddress = env["RAILHOP_REDIS_ADDRESS"]
	}
	if env["RAILHOP_STATION_MANIFEST"] != "" {
		cfg.StationManifest = env["RAILHOP_STATION_MANIFEST"]
	}
	if env["RAILHOP_OPERATOR_MAPPING"] != "" {
		cfg.OperatorMapping = env["RAILHOP_OPERATOR_MAPPING"]
	}

	return cfg, nil
}
