package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/trivision/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Zero values mean
// "not set" and leave the corresponding Config field untouched.
type JsonConfig struct {
	StoreDSN        string          `json:"store_dsn"`
	StoreQuotaBytes int64           `json:"store_quota_bytes"`
	GeminiAPIKey    string          `json:"gemini_api_key"`
	GeminiModel     string          `json:"gemini_model"`
	GeminiBaseURL   string          `json:"gemini_base_url"`
	ClassifyTimeout timex.Duration  `json:"classify_timeout"`
	AuthLatency     *timex.Duration `json:"auth_latency"`
	HistoryCapacity int             `json:"history_capacity"`
	CameraURL       string          `json:"camera_url"`
	LogLevel        string          `json:"log_level"`
	S3Region        string          `json:"s3_region"`
	S3Endpoint      string          `json:"s3_endpoint"`
	S3AccessKey     string          `json:"s3_access_key"`
	S3SecretKey     string          `json:"s3_secret_key"`
}

// parseJson overlays cfg with values from the JSON file at path. An empty
// path is a no-op. Read or decode errors panic.
func parseJson(cfg *Config, path string) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.StoreDSN, jc.StoreDSN)
	setString(&cfg.GeminiAPIKey, jc.GeminiAPIKey)
	setString(&cfg.GeminiModel, jc.GeminiModel)
	setString(&cfg.GeminiBaseURL, jc.GeminiBaseURL)
	setString(&cfg.CameraURL, jc.CameraURL)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)

	if jc.StoreQuotaBytes > 0 {
		cfg.StoreQuotaBytes = jc.StoreQuotaBytes
	}
	if jc.ClassifyTimeout.Duration > 0 {
		cfg.ClassifyTimeout = jc.ClassifyTimeout.Duration
	}
	// zero latency is a legitimate choice, so presence is what counts
	if jc.AuthLatency != nil {
		cfg.AuthLatency = jc.AuthLatency.Duration
	}
	if jc.HistoryCapacity > 0 {
		cfg.HistoryCapacity = jc.HistoryCapacity
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
