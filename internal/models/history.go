package models

import "time"

// HistoryEntry is one completed capture: the verdict plus the JPEG that was
// classified. Image is base64-encoded by encoding/json.
type HistoryEntry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Verdict   Verdict   `json:"verdict"`
	Image     []byte    `json:"imageData"`
}
