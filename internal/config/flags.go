package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/trivision/internal/flagx"
)

var knownFlags = []string{"-s", "-q", "-k", "-m", "-t", "-d", "-n", "-u", "-l", "-e", "-g"}

// parseFlags overlays cfg with command-line flags found in args. Flags it
// does not know (for example -c) are filtered out first. Parse errors panic.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("trivision", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreDSN, "s", cfg.StoreDSN, "store DSN")
	fs.Int64Var(&cfg.StoreQuotaBytes, "q", cfg.StoreQuotaBytes, "max bytes per stored value (0 = unlimited)")
	fs.StringVar(&cfg.GeminiAPIKey, "k", cfg.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&cfg.GeminiModel, "m", cfg.GeminiModel, "Gemini model")
	timeout := fs.Int("t", int(cfg.ClassifyTimeout.Seconds()), "classification timeout (in seconds)")
	latency := fs.Int("d", int(cfg.AuthLatency.Milliseconds()), "auth latency (in milliseconds)")
	fs.IntVar(&cfg.HistoryCapacity, "n", cfg.HistoryCapacity, "history capacity")
	fs.StringVar(&cfg.CameraURL, "u", cfg.CameraURL, "camera snapshot URL")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "S3 endpoint")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	cfg.ClassifyTimeout = time.Duration(*timeout) * time.Second
	cfg.AuthLatency = time.Duration(*latency) * time.Millisecond
}
