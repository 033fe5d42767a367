package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownOrganism is recorded when registry markup is malformed or lacks an
// organism field.
const UnknownOrganism = "Unknown organism"

type DangerLevel int

const (
	DangerLow DangerLevel = iota
	DangerMedium
	DangerHigh
)

func (d DangerLevel) String() string {
	switch d {
	case DangerHigh:
		return "High"
	case DangerMedium:
		return "Medium"
	default:
		return "Low"
	}
}

func ParseDangerLevel(s string) (DangerLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return DangerLow, nil
	case "medium":
		return DangerMedium, nil
	case "high":
		return DangerHigh, nil
	}
	return DangerLow, fmt.Errorf("unknown danger level %q", s)
}

func (d DangerLevel) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DangerLevel) UnmarshalText(text []byte) error {
	v, err := ParseDangerLevel(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

type GenomicRecord struct {
	Organism string `json:"organism"`
}

type Classification struct {
	IsPathogen bool        `json:"is_pathogen"`
	Danger     DangerLevel `json:"danger_level"`
}

// Source tells which path produced an AnalysisResult.
type Source string

const (
	SourceRegistry Source = "registry"
	SourceFallback Source = "fallback"
)

// FallbackResult is the free-text answer used when the registry is unavailable.
type FallbackResult struct {
	Response string `json:"response"`
	Err      error  `json:"-"`
}

// AnalysisResult is the response envelope for both paths. Organism is set on
// the registry path, Response on the fallback path.
type AnalysisResult struct {
	GenomicID   string      `json:"genomic_id"`
	Organism    string      `json:"organism,omitempty"`
	Response    string      `json:"response,omitempty"`
	IsPathogen  bool        `json:"is_pathogen"`
	DangerLevel DangerLevel `json:"danger_level"`
	Report      string      `json:"report"`
	Source      Source      `json:"source"`
}

// Subject is the text the report is written about.
func (r AnalysisResult) Subject() string {
	if r.Organism != "" {
		return r.Organism
	}
	return r.Response
}

func (r AnalysisResult) String() string {
	b, _ := json.Marshal(r)
	return string(b)
}
