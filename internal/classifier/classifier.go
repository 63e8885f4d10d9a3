// Package classifier sends a still image to a Gemini model and turns the
// structured answer into a models.Verdict.
//
// Classify never fails from the caller's point of view: any error along the
// way is logged and replaced by models.FailedVerdict.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/trivision/internal/common"
	"github.com/dmitrijs2005/trivision/internal/logging"
	"github.com/dmitrijs2005/trivision/internal/models"
	"google.golang.org/genai"
)

type Classifier interface {
	Classify(ctx context.Context, image []byte) models.Verdict
}

// generator is the slice of *genai.Models the classifier needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// newGenerator builds the Gemini client; overridden in tests.
var newGenerator = func(ctx context.Context, opts Options) (generator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client.Models, nil
}

// GenAIClassifier is the Gemini-backed Classifier. The client is created on
// first use, so a missing API key only affects classification.
type GenAIClassifier struct {
	opts   Options
	logger logging.Logger

	mu  sync.Mutex
	gen generator
}

func New(opts Options, logger logging.Logger) *GenAIClassifier {
	return &GenAIClassifier{
		opts:   opts,
		logger: logger.With("component", "classifier", "model", opts.Model),
	}
}

func (c *GenAIClassifier) client(ctx context.Context) (generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != nil {
		return c.gen, nil
	}
	if c.opts.APIKey == "" {
		return nil, errors.New("no Gemini API key configured")
	}
	gen, err := newGenerator(ctx, c.opts)
	if err != nil {
		return nil, err
	}
	c.gen = gen
	return gen, nil
}

func (c *GenAIClassifier) Classify(ctx context.Context, image []byte) models.Verdict {
	start := time.Now()
	v, err := c.classify(ctx, image)
	if err != nil {
		c.logger.Error(ctx, "classification failed", "error", err, "elapsed", time.Since(start))
		return models.FailedVerdict
	}
	c.logger.Info(ctx, "classified",
		"classification", v.Classification,
		"confidence", v.Confidence,
		"elapsed", time.Since(start))
	return v
}

func (c *GenAIClassifier) classify(ctx context.Context, image []byte) (models.Verdict, error) {
	data, err := imageBytes(image)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: %w", common.ErrClassification, err)
	}
	if len(data) == 0 {
		return models.Verdict{}, fmt.Errorf("%w: empty image", common.ErrClassification)
	}

	gen, err := c.client(ctx)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: %w", common.ErrClassification, err)
	}

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	resp, err := gen.GenerateContent(ctx, c.opts.Model, requestContents(data), generateConfig())
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: generate content: %w", common.ErrClassification, err)
	}
	if resp == nil {
		return models.Verdict{}, fmt.Errorf("%w: nil response", common.ErrClassification)
	}

	v, err := parseVerdict(resp.Text())
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: %w", common.ErrClassification, err)
	}
	return v, nil
}
