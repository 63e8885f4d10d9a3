package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/trivision/internal/auth"
	"github.com/dmitrijs2005/trivision/internal/camera"
	"github.com/dmitrijs2005/trivision/internal/capture"
	"github.com/dmitrijs2005/trivision/internal/classifier"
	"github.com/dmitrijs2005/trivision/internal/config"
	"github.com/dmitrijs2005/trivision/internal/history"
	"github.com/dmitrijs2005/trivision/internal/kv"
	"github.com/dmitrijs2005/trivision/internal/logging"
)

// exportDir is where "export" writes images unless told otherwise.
const exportDir = "captures"

type App struct {
	config      *config.Config
	store       kv.Store
	authService auth.Service
	history     *history.Log
	pipeline    *capture.Pipeline
	camera      camera.Device
	logger      logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the configured store and builds every service on top of it.
// The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := kv.Open(ctx, kv.Options{
		DSN:        c.StoreDSN,
		QuotaBytes: c.StoreQuotaBytes,
		S3: kv.S3Options{
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		},
	})
	if err != nil {
		logger.Error(ctx, "error initializing store", "dsn", c.StoreDSN, "error", err)
		return nil, err
	}

	cl := classifier.New(classifier.Options{
		APIKey:  c.GeminiAPIKey,
		Model:   c.GeminiModel,
		BaseURL: c.GeminiBaseURL,
		Timeout: c.ClassifyTimeout,
	}, logger)
	if c.GeminiAPIKey == "" {
		logger.Warn(ctx, "no Gemini API key configured; every analysis will come back UNKNOWN",
			"env", config.APIKeyEnvVar)
	}

	return newApp(appDeps{
		config:   c,
		store:    store,
		auth:     auth.NewService(store, auth.NewSessionHolder(store), c.AuthLatency, logger),
		history:  history.New(store, c.HistoryCapacity, logger),
		classify: cl,
		camera:   camera.NewHTTPDevice(c.CameraURL, nil),
		logger:   logger,
		in:       os.Stdin,
		out:      os.Stdout,
	}), nil
}

type appDeps struct {
	config   *config.Config
	store    kv.Store
	auth     auth.Service
	history  *history.Log
	classify classifier.Classifier
	camera   camera.Device
	logger   logging.Logger
	in       io.Reader
	out      io.Writer
}

func newApp(d appDeps) *App {
	a := &App{
		config:      d.config,
		store:       d.store,
		authService: d.auth,
		history:     d.history,
		pipeline:    capture.New(d.classify, d.history, d.logger),
		camera:      d.camera,
		logger:      d.logger,
		reader:      bufio.NewReader(d.in),
		out:         d.out,
	}
	a.pipeline.OnState = a.showProgress
	return a
}

// Run restores the previous session and serves the REPL until exit.
func (a *App) Run(ctx context.Context) {
	if acc, err := a.authService.Restore(ctx); err != nil {
		a.logger.Warn(ctx, "session not restored", "error", err)
	} else if acc != nil {
		a.logger.Info(ctx, "session restored", "username", acc.Username)
	}

	fmt.Fprintln(a.out, "TriVision Sort (type 'help' for commands)")
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Welcome back, %s.\n", a.authService.CurrentUser().Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) isLoggedIn() bool {
	return a.authService.CurrentUser() != nil
}

func (a *App) getStatus() string {
	if acc := a.authService.CurrentUser(); acc != nil {
		return "(" + acc.Username + ")"
	}
	return ""
}
