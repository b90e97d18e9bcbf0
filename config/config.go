package config

import (
	"mocktrade/pkg/types"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server *ServerConfig `yaml:"server"`
	Orders *OrderConfig  `yaml:"orders"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type OrderConfig struct {
	SupportedSymbols []string `yaml:"supportedSymbols"`

	// simulated per-request latency window (applied before any store access)
	MinRequestLatencyMs int64 `yaml:"minRequestLatencyMs"`
	MaxRequestLatencyMs int64 `yaml:"maxRequestLatencyMs"`

	// execution delay window for the background scheduler
	MinExecutionDelayMs int64 `yaml:"minExecutionDelayMs"`
	MaxExecutionDelayMs int64 `yaml:"maxExecutionDelayMs"`

	// per-subscriber event buffer; a subscriber that falls this far behind
	// is dropped
	SubscriberBuffer int `yaml:"subscriberBuffer"`
}

func Default() *Config {
	return &Config{
		Server: &ServerConfig{Addr: ":3000"},
		Orders: &OrderConfig{
			SupportedSymbols:    []string{"EURUSD", "USDEUR", "CADUSD", "USDCAD"},
			MinRequestLatencyMs: 100,
			MaxRequestLatencyMs: 1000,
			MinExecutionDelayMs: 4000,
			MaxExecutionDelayMs: 6000,
			SubscriberBuffer:    64,
		},
	}
}

func LoadConfig(envName types.EnvName) (*Config, error) {
	yamlFiles := map[types.EnvName]string{
		types.EnvLocal: "mocktrade.yaml",
		types.EnvDev:   "mocktrade.dev.yaml",
		types.EnvProd:  "mocktrade.prod.yaml",
	}
	fileName := yamlFiles[envName]
	data, err := os.ReadFile(fileName)
	if err != nil {
		// the service is fully self-contained; run on defaults when no
		// config file is present
		log.Warnf("config file '%s' not found, using defaults", fileName)
		return Default(), nil
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		log.Fatalf("fail to decode config file '%s': %v", fileName, err)
	}
	return config, nil
}
