package config

import (
	"os"

	"github.com/go-yaml/yaml"

	"github.com/verses-xyz/interdependence"
)

type Config struct {
	Ledger Ledger `yaml:"ledger"`
	Server Server `yaml:"server"`
}

type Ledger struct {
	GatewayURL       string `yaml:"gatewayUrl"`
	BundlerURL       string `yaml:"bundlerUrl"`
	TrustedPublisher string `yaml:"trustedPublisher"`
}

type Server struct {
	ListenAddr      string `yaml:"listenAddr"`
	PostgresDsn     string `yaml:"postgresDsn"`
	RedisAddr       string `yaml:"redisAddr"`
	RedisDB         int    `yaml:"redisDB"`
	ProofServiceURL string `yaml:"proofServiceUrl"`
	RateLimit       int64  `yaml:"rateLimit"`
	RateLimitWindow int    `yaml:"rateLimitWindowSeconds"`
	EnableTrace     bool   `yaml:"enableTrace"`
	TraceEndpoint   string `yaml:"traceEndpoint"`
}

func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Ledger.GatewayURL == "" {
		config.Ledger.GatewayURL = "https://arweave.net"
	}
	if config.Ledger.TrustedPublisher == "" {
		config.Ledger.TrustedPublisher = interdependence.TrustedPublisher
	}
	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8080"
	}
	if config.Server.RateLimit == 0 {
		config.Server.RateLimit = 30
	}
	if config.Server.RateLimitWindow == 0 {
		config.Server.RateLimitWindow = 60
	}

	return config, nil
}
