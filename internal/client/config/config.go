package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the clipshare CLI.
type Config struct {
	ServerEndpointAddr  string        `env:"CLIPSHARE_RELAY_ADDR"`
	DatabasePath        string        `env:"CLIPSHARE_DB_PATH"`
	RequestTimeout      time.Duration `env:"CLIPSHARE_REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"CLIPSHARE_ONLINE_CHECK_INTERVAL"`
	DecryptConcurrency  int           `env:"CLIPSHARE_DECRYPT_CONCURRENCY"`
	KeyRingSize         int           `env:"CLIPSHARE_KEY_RING_SIZE"`
	DownloadDir         string        `env:"CLIPSHARE_DOWNLOAD_DIR"`
	LogLevel            string        `env:"CLIPSHARE_LOG_LEVEL"`

	S3Region          string `env:"CLIPSHARE_S3_REGION"`
	S3Endpoint        string `env:"CLIPSHARE_S3_ENDPOINT"`
	S3AccessKeyID     string `env:"CLIPSHARE_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"CLIPSHARE_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle    bool   `env:"CLIPSHARE_S3_USE_PATH_STYLE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "clipshare.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DecryptConcurrency = 8
	c.KeyRingSize = 4
	c.DownloadDir = "downloads"
	c.LogLevel = "warn"
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and flags in os.Args, later sources taking precedence.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}

// Load is LoadConfig with explicit arguments.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
