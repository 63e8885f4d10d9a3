package classifier

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/trivision/internal/models"
)

// rawVerdict mirrors the response schema; pointers tell "missing" apart
// from zero values.
type rawVerdict struct {
	Classification *models.Classification `json:"classification"`
	Confidence     *float64               `json:"confidence"`
	Label          *string                `json:"label"`
	Reasoning      *string                `json:"reasoning"`
}

// parseVerdict decodes model output strictly: unknown fields, missing
// fields, trailing data, unknown categories and out-of-range confidence are
// all rejected.
func parseVerdict(text string) (models.Verdict, error) {
	if text == "" {
		return models.Verdict{}, errors.New("empty response text")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()

	var raw rawVerdict
	if err := dec.Decode(&raw); err != nil {
		return models.Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	if dec.More() {
		return models.Verdict{}, errors.New("decode verdict: trailing data")
	}

	switch {
	case raw.Classification == nil:
		return models.Verdict{}, errors.New("verdict: missing classification")
	case raw.Confidence == nil:
		return models.Verdict{}, errors.New("verdict: missing confidence")
	case raw.Label == nil:
		return models.Verdict{}, errors.New("verdict: missing label")
	case raw.Reasoning == nil:
		return models.Verdict{}, errors.New("verdict: missing reasoning")
	}

	v := models.Verdict{
		Classification: *raw.Classification,
		Confidence:     *raw.Confidence,
		Label:          *raw.Label,
		Reasoning:      *raw.Reasoning,
	}
	if err := v.Validate(); err != nil {
		return models.Verdict{}, fmt.Errorf("verdict: %w", err)
	}
	return v, nil
}

var dataURIPrefix = []byte("data:")

// imageBytes accepts raw image bytes or a base64 data URI
// ("data:image/jpeg;base64,...") and returns the raw bytes.
func imageBytes(in []byte) ([]byte, error) {
	if !bytes.HasPrefix(in, dataURIPrefix) {
		return in, nil
	}
	_, payload, ok := bytes.Cut(in, []byte(","))
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
	n, err := base64.StdEncoding.Decode(out, bytes.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	return out[:n], nil
}
