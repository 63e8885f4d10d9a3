// Package models defines the records shared by the services: accounts,
// classification verdicts and history entries.
package models

import (
	"fmt"
	"math"
)

// Classification is one of the seven waste categories, or Unknown.
type Classification string

const (
	WetWaste       Classification = "WET_WASTE"
	DryWaste       Classification = "DRY_WASTE"
	BurnableWaste  Classification = "BURNABLE_WASTE"
	InertWaste     Classification = "INERT_WASTE"
	HazardousWaste Classification = "HAZARDOUS_WASTE"
	BulkyWaste     Classification = "BULKY_WASTE"
	NotWaste       Classification = "NOT_WASTE"
	Unknown        Classification = "UNKNOWN"
)

// Classifications lists every accepted value, Unknown last.
var Classifications = []Classification{
	WetWaste, DryWaste, BurnableWaste, InertWaste, HazardousWaste, BulkyWaste, NotWaste, Unknown,
}

func (c Classification) Valid() bool {
	for _, v := range Classifications {
		if c == v {
			return true
		}
	}
	return false
}

// Title is the human-readable category name used by the result card.
func (c Classification) Title() string {
	switch c {
	case WetWaste:
		return "Wet Waste"
	case DryWaste:
		return "Dry Waste"
	case BurnableWaste:
		return "Burnable Waste"
	case InertWaste:
		return "Inert Waste (C&D)"
	case HazardousWaste:
		return "Hazardous Waste"
	case BulkyWaste:
		return "Bulky Waste"
	case NotWaste:
		return "Not Waste"
	default:
		return "Unknown"
	}
}

// Verdict is the structured result of one classification call.
type Verdict struct {
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	Label          string         `json:"label"`
	Reasoning      string         `json:"reasoning"`
}

// FailedVerdict is returned in place of an error whenever classification
// fails for any reason.
var FailedVerdict = Verdict{
	Classification: Unknown,
	Confidence:     0,
	Label:          "Error",
	Reasoning:      "Failed to analyze image. Please try again.",
}

// Validate checks the enum and the confidence range.
func (v Verdict) Validate() error {
	if !v.Classification.Valid() {
		return fmt.Errorf("unknown classification %q", v.Classification)
	}
	if math.IsNaN(v.Confidence) || v.Confidence < 0 || v.Confidence > 1 {
		return fmt.Errorf("confidence %v out of [0,1]", v.Confidence)
	}
	return nil
}
