package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/trivision/internal/common"
	"github.com/dmitrijs2005/trivision/internal/flagx"
)

// APIKeyEnvVar is read when neither JSON nor flags provide a Gemini key.
const APIKeyEnvVar = "GEMINI_API_KEY"

// Config holds runtime settings for the TriVision CLI.
type Config struct {
	StoreDSN        string
	StoreQuotaBytes int64

	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	ClassifyTimeout time.Duration

	AuthLatency     time.Duration
	HistoryCapacity int
	CameraURL       string
	LogLevel        string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreDSN = "sqlite:trivision.db"
	c.StoreQuotaBytes = 0
	c.GeminiModel = "gemini-2.5-flash"
	c.ClassifyTimeout = 30 * time.Second
	c.AuthLatency = 800 * time.Millisecond
	c.HistoryCapacity = common.DefaultHistoryCapacity
	c.CameraURL = "http://127.0.0.1:8080/?action=snapshot"
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config from defaults, the JSON file, the
// environment and os.Args, in that order. It panics on malformed input.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, flagx.ConfigPath(args))
	if key := os.Getenv(APIKeyEnvVar); key != "" {
		cfg.GeminiAPIKey = key
	}
	parseFlags(cfg, args)
	return cfg
}
