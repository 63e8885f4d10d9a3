// Package camera acquires still frames from a snapshot camera.
//
// A Device hands out at most one open Stream at a time. The lease is held
// until Stream.Close, which is idempotent; With scopes a stream to a
// callback and releases it on every exit path.
package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/trivision/internal/common"
	"golang.org/x/sync/semaphore"
)

// ErrDeviceBusy is returned by Open while another stream is open.
var ErrDeviceBusy = errors.New("camera already in use")

// maxFrameBytes bounds a single snapshot body.
const maxFrameBytes = 4 * common.MaxUploadBytes

type Stream interface {
	Frame(ctx context.Context) ([]byte, error)
	Close() error
}

type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// HTTPDevice is a camera exposing a single-image endpoint, such as
// mjpg-streamer's "?action=snapshot" or an IP camera's snapshot.jpg.
type HTTPDevice struct {
	URL    string
	Client *http.Client

	lease *semaphore.Weighted
	once  sync.Once
}

func NewHTTPDevice(url string, client *http.Client) *HTTPDevice {
	if client == nil {
		client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	return &HTTPDevice{URL: url, Client: client}
}

func (d *HTTPDevice) sem() *semaphore.Weighted {
	d.once.Do(func() {
		if d.lease == nil {
			d.lease = semaphore.NewWeighted(1)
		}
	})
	return d.lease
}

// Open takes the device lease and probes the endpoint with one request.
// Any probe failure is reported as common.ErrAcquisitionDenied and the lease
// is given back.
func (d *HTTPDevice) Open(ctx context.Context) (Stream, error) {
	if d.URL == "" {
		return nil, fmt.Errorf("%w: no camera configured", common.ErrAcquisitionDenied)
	}
	if !d.sem().TryAcquire(1) {
		return nil, ErrDeviceBusy
	}

	s := &httpStream{dev: d}
	if _, err := s.Frame(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (d *HTTPDevice) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

type httpStream struct {
	dev *HTTPDevice

	mu     sync.Mutex
	closed bool
}

// ErrStreamClosed is returned by Frame after Close.
var ErrStreamClosed = errors.New("camera stream closed")

func (s *httpStream) Frame(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrStreamClosed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.dev.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrAcquisitionDenied, err)
	}
	resp, err := s.dev.client().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", common.ErrAcquisitionDenied, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: camera refused access (%s)", common.ErrAcquisitionDenied, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: camera returned %s", common.ErrAcquisitionDenied, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read frame: %w", common.ErrAcquisitionDenied, err)
	}
	if len(body) > maxFrameBytes {
		return nil, fmt.Errorf("%w: frame exceeds %d bytes", common.ErrAcquisitionDenied, maxFrameBytes)
	}

	switch ct := http.DetectContentType(body); ct {
	case "image/jpeg", "image/png":
		return body, nil
	default:
		return nil, fmt.Errorf("%w: camera sent %s, not an image", common.ErrAcquisitionDenied, ct)
	}
}

func (s *httpStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.dev.sem().Release(1)
	s.dev.client().CloseIdleConnections()
	return nil
}

// With opens a stream on dev, runs fn and closes the stream whether fn
// returns, fails or panics.
func With(ctx context.Context, dev Device, fn func(Stream) error) error {
	s, err := dev.Open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
