package camera

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/trivision/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// snapshotServer serves body with status; hits counts requests.
func snapshotServer(t *testing.T, status int, body []byte, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPDevice_OpenFrameClose(t *testing.T) {
	frame := pngFrame(t)
	var hits atomic.Int32
	srv := snapshotServer(t, http.StatusOK, frame, &hits)
	dev := NewHTTPDevice(srv.URL, nil)

	s, err := dev.Open(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load(), "open probes once")

	got, err := s.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, frame, got)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Frame(context.Background())
	require.ErrorIs(t, err, ErrStreamClosed)
}

func TestHTTPDevice_ExclusiveLease(t *testing.T) {
	srv := snapshotServer(t, http.StatusOK, pngFrame(t), nil)
	dev := NewHTTPDevice(srv.URL, nil)

	s, err := dev.Open(context.Background())
	require.NoError(t, err)

	_, err = dev.Open(context.Background())
	require.ErrorIs(t, err, ErrDeviceBusy)

	require.NoError(t, s.Close())

	s2, err := dev.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestHTTPDevice_Denied(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   []byte
	}{
		{name: "unauthorized", status: http.StatusUnauthorized},
		{name: "forbidden", status: http.StatusForbidden},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "not an image", status: http.StatusOK, body: []byte("<html>login</html>")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := snapshotServer(t, tt.status, tt.body, nil)
			dev := NewHTTPDevice(srv.URL, nil)

			_, err := dev.Open(context.Background())
			require.ErrorIs(t, err, common.ErrAcquisitionDenied)

			// a failed probe gives the lease back
			assert.True(t, dev.sem().TryAcquire(1))
			dev.sem().Release(1)
		})
	}
}

func TestHTTPDevice_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPDevice(url, nil).Open(context.Background())
	require.ErrorIs(t, err, common.ErrAcquisitionDenied)
}

func TestHTTPDevice_NoURL(t *testing.T) {
	_, err := NewHTTPDevice("", nil).Open(context.Background())
	require.ErrorIs(t, err, common.ErrAcquisitionDenied)
}

func TestHTTPDevice_CanceledContext(t *testing.T) {
	srv := snapshotServer(t, http.StatusOK, pngFrame(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPDevice(srv.URL, nil).Open(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWith_ReleasesOnError(t *testing.T) {
	srv := snapshotServer(t, http.StatusOK, pngFrame(t), nil)
	dev := NewHTTPDevice(srv.URL, nil)
	boom := errors.New("boom")

	err := With(context.Background(), dev, func(s Stream) error {
		_, err := s.Frame(context.Background())
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	s, err := dev.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestWith_ReleasesOnPanic(t *testing.T) {
	srv := snapshotServer(t, http.StatusOK, pngFrame(t), nil)
	dev := NewHTTPDevice(srv.URL, nil)

	func() {
		defer func() {
			assert.Equal(t, "capture exploded", recover())
		}()
		_ = With(context.Background(), dev, func(Stream) error {
			panic("capture exploded")
		})
	}()

	s, err := dev.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestWith_OpenErrorSkipsCallback(t *testing.T) {
	srv := snapshotServer(t, http.StatusForbidden, nil, nil)
	called := false
	err := With(context.Background(), NewHTTPDevice(srv.URL, nil), func(Stream) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, common.ErrAcquisitionDenied)
	assert.False(t, called)
}
