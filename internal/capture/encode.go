package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/trivision/internal/common"
)

// JPEGQuality matches the still export quality of the camera view.
const JPEGQuality = 90

// encodeJPEG decodes any registered format and re-encodes it as JPEG.
func encodeJPEG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnsupportedImage, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode %s as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}
