// Package capture runs one classification attempt end to end: acquire a
// still, encode it as JPEG, classify it and record it in the history log.
package capture

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/trivision/internal/classifier"
	"github.com/dmitrijs2005/trivision/internal/common"
	"github.com/dmitrijs2005/trivision/internal/logging"
	"github.com/dmitrijs2005/trivision/internal/models"
	"golang.org/x/sync/semaphore"
)

type State string

const (
	Idle        State = "idle"
	Acquiring   State = "acquiring"
	Encoding    State = "encoding"
	Classifying State = "classifying"
	Persisting  State = "persisting"
	Done        State = "done"
	Failed      State = "error"
)

// Recorder persists completed classifications.
type Recorder interface {
	Save(ctx context.Context, verdict models.Verdict, image []byte) models.HistoryEntry
}

type Result struct {
	Verdict models.Verdict
	Image   []byte
	Entry   models.HistoryEntry
	States  []State
}

type Pipeline struct {
	classifier classifier.Classifier
	history    Recorder
	logger     logging.Logger

	// OnState, when set, observes every transition of a run.
	OnState func(State)

	guard *semaphore.Weighted

	mu   sync.Mutex
	last []byte
}

func New(c classifier.Classifier, history Recorder, logger logging.Logger) *Pipeline {
	return &Pipeline{
		classifier: c,
		history:    history,
		logger:     logger.With("component", "capture"),
		guard:      semaphore.NewWeighted(1),
	}
}

type run struct {
	p      *Pipeline
	states []State
}

func (r *run) enter(s State) {
	r.states = append(r.states, s)
	if r.p.OnState != nil {
		r.p.OnState(s)
	}
}

// Run acquires one image from src and classifies it. Only acquisition and
// decoding problems are returned as errors; a failed classification still
// yields a Result carrying models.FailedVerdict.
func (p *Pipeline) Run(ctx context.Context, src Source) (Result, error) {
	if !p.guard.TryAcquire(1) {
		return Result{}, common.ErrBusy
	}
	defer p.guard.Release(1)

	r := &run{p: p}
	r.enter(Idle)

	r.enter(Acquiring)
	raw, err := src.Acquire(ctx)
	if err != nil {
		r.enter(Failed)
		p.logger.Warn(ctx, "acquisition failed", "error", err)
		return Result{States: r.states}, err
	}

	r.enter(Encoding)
	img, err := encodeJPEG(raw)
	if err != nil {
		r.enter(Failed)
		p.logger.Warn(ctx, "image rejected", "error", err)
		return Result{States: r.states}, err
	}

	p.mu.Lock()
	p.last = img
	p.mu.Unlock()

	return p.classifyAndSave(ctx, r, img)
}

// Rerun classifies the most recently acquired image again. Each call adds
// its own history entry.
func (p *Pipeline) Rerun(ctx context.Context) (Result, error) {
	if !p.guard.TryAcquire(1) {
		return Result{}, common.ErrBusy
	}
	defer p.guard.Release(1)

	p.mu.Lock()
	img := p.last
	p.mu.Unlock()
	if img == nil {
		return Result{}, common.ErrNothingToRerun
	}

	r := &run{p: p}
	r.enter(Idle)
	return p.classifyAndSave(ctx, r, img)
}

// HasImage reports whether Rerun has anything to work with.
func (p *Pipeline) HasImage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last != nil
}

// Reset forgets the last acquired image.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	p.last = nil
	p.mu.Unlock()
}

func (p *Pipeline) classifyAndSave(ctx context.Context, r *run, img []byte) (Result, error) {
	r.enter(Classifying)
	verdict := p.classifier.Classify(ctx, img)

	if err := ctx.Err(); err != nil {
		r.enter(Failed)
		return Result{States: r.states}, err
	}

	r.enter(Persisting)
	entry := p.history.Save(ctx, verdict, img)

	r.enter(Done)
	if verdict.Classification == models.Unknown {
		p.logger.Warn(ctx, "capture finished without a usable verdict", "id", entry.ID)
	} else {
		p.logger.Info(ctx, "capture finished", "id", entry.ID, "classification", verdict.Classification)
	}

	return Result{
		Verdict: verdict,
		Image:   img,
		Entry:   entry,
		States:  r.states,
	}, nil
}
