package capture

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/trivision/internal/camera"
	"github.com/dmitrijs2005/trivision/internal/common"
)

// Source yields one still image per Acquire call.
type Source interface {
	Acquire(ctx context.Context) ([]byte, error)
}

// FileSource reads an image from disk, the upload path.
type FileSource struct {
	Path string
}

func (f FileSource) Acquire(_ context.Context) ([]byte, error) {
	fi, err := os.Stat(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrAcquisitionDenied, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", common.ErrAcquisitionDenied, f.Path)
	}
	if fi.Size() > common.MaxUploadBytes {
		return nil, fmt.Errorf("%s (%d bytes): %w", f.Path, fi.Size(), common.ErrImageTooLarge)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrAcquisitionDenied, err)
	}
	return data, nil
}

// StreamSource grabs a frame from an already open camera stream, as the
// scan view does while it holds the device.
type StreamSource struct {
	Stream camera.Stream
}

func (s StreamSource) Acquire(ctx context.Context) ([]byte, error) {
	return s.Stream.Frame(ctx)
}

// DeviceSource opens the device for a single frame and releases it.
type DeviceSource struct {
	Device camera.Device
}

func (d DeviceSource) Acquire(ctx context.Context) ([]byte, error) {
	var frame []byte
	err := camera.With(ctx, d.Device, func(s camera.Stream) error {
		var err error
		frame, err = s.Frame(ctx)
		return err
	})
	return frame, err
}
