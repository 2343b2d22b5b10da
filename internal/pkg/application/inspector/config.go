package inspector

import (
	"io"

	yaml "gopkg.in/yaml.v2"
)

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowedOrigins"`
	AllowCredentials bool     `yaml:"allowCredentials"`
}

type ExplorableConfig struct {
	Name   string         `yaml:"name"`
	Kind   string         `yaml:"kind"`
	Values map[string]any `yaml:"values"`
}

type Config struct {
	CORS        CORSConfig         `yaml:"cors"`
	Explorables []ExplorableConfig `yaml:"explorables"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	return cfg, err
}
