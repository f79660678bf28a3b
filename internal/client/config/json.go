package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/clipshare/internal/flagx"
	"github.com/dmitrijs2005/clipshare/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Missing keys
// keep the values set before the file is applied.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	DatabasePath        *string         `json:"database_path"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DecryptConcurrency  *int            `json:"decrypt_concurrency"`
	KeyRingSize         *int            `json:"key_ring_size"`
	DownloadDir         *string         `json:"download_dir"`
	LogLevel            *string         `json:"log_level"`
	S3                  *JsonS3Config   `json:"s3"`
}

type JsonS3Config struct {
	Region          *string `json:"region"`
	Endpoint        *string `json:"endpoint"`
	AccessKeyID     *string `json:"access_key_id"`
	SecretAccessKey *string `json:"secret_access_key"`
	UsePathStyle    *bool   `json:"use_path_style"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// Read and unmarshal errors panic.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setIf(&cfg.DatabasePath, jc.DatabasePath)
	setIf(&cfg.DecryptConcurrency, jc.DecryptConcurrency)
	setIf(&cfg.KeyRingSize, jc.KeyRingSize)
	setIf(&cfg.DownloadDir, jc.DownloadDir)
	setIf(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if s3 := jc.S3; s3 != nil {
		setIf(&cfg.S3Region, s3.Region)
		setIf(&cfg.S3Endpoint, s3.Endpoint)
		setIf(&cfg.S3AccessKeyID, s3.AccessKeyID)
		setIf(&cfg.S3SecretAccessKey, s3.SecretAccessKey)
		setIf(&cfg.S3UsePathStyle, s3.UsePathStyle)
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
