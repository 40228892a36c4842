package scan

import (
	"encoding/json"
	"fmt"
	"strings"

	"nfscan/internal/config"
)

// Params describes one scan sweep. Values absent from the queued request
// fall back to the configured defaults.
type Params struct {
	XMin      float64 `json:"x_min"`
	XMax      float64 `json:"x_max"`
	YMin      float64 `json:"y_min"`
	YMax      float64 `json:"y_max"`
	StepMM    float64 `json:"step_mm"`
	ZHeightMM float64 `json:"z_height_mm"`
	Feed      float64 `json:"feed"`
	FreqHz    float64 `json:"freq_hz"`
}

// Trace names one spectrum quantity measured at every grid cell.
type Trace struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
	Unit string `json:"unit,omitempty"`
}

// DefaultTraces is used when a queued request carries an empty trace list.
func DefaultTraces() []Trace {
	return []Trace{{Name: "S21", Kind: "magnitude", Unit: "dB"}}
}

type paramsWire struct {
	XMin      *float64 `json:"x_min"`
	XMax      *float64 `json:"x_max"`
	YMin      *float64 `json:"y_min"`
	YMax      *float64 `json:"y_max"`
	StepMM    *float64 `json:"step_mm"`
	ZHeightMM *float64 `json:"z_height_mm"`
	Feed      *float64 `json:"feed"`
	FreqHz    *float64 `json:"freq_hz"`
}

// ParseParams decodes a params payload, overlaying it on the configured
// defaults and validating the result.
func ParseParams(payload string, cfg *config.Config) (Params, error) {
	p := Params{
		XMin:      cfg.Scan.Area.XMin,
		XMax:      cfg.Scan.Area.XMax,
		YMin:      cfg.Scan.Area.YMin,
		YMax:      cfg.Scan.Area.YMax,
		StepMM:    cfg.Scan.StepMM,
		ZHeightMM: cfg.Scan.ZHeightMM,
		Feed:      cfg.Scan.Feed,
		FreqHz:    cfg.Scan.FreqHz,
	}

	payload = strings.TrimSpace(payload)
	if payload != "" {
		var wire paramsWire
		if err := json.Unmarshal([]byte(payload), &wire); err != nil {
			return Params{}, fmt.Errorf("parse scan params: %w", err)
		}
		overlay := func(dst *float64, src *float64) {
			if src != nil {
				*dst = *src
			}
		}
		overlay(&p.XMin, wire.XMin)
		overlay(&p.XMax, wire.XMax)
		overlay(&p.YMin, wire.YMin)
		overlay(&p.YMax, wire.YMax)
		overlay(&p.StepMM, wire.StepMM)
		overlay(&p.ZHeightMM, wire.ZHeightMM)
		overlay(&p.Feed, wire.Feed)
		overlay(&p.FreqHz, wire.FreqHz)
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// ParseTraces decodes a trace list payload, substituting the default trace
// when the list is empty.
func ParseTraces(payload string) ([]Trace, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return DefaultTraces(), nil
	}

	var traces []Trace
	if err := json.Unmarshal([]byte(payload), &traces); err != nil {
		return nil, fmt.Errorf("parse trace list: %w", err)
	}
	if len(traces) == 0 {
		return DefaultTraces(), nil
	}
	for i, tr := range traces {
		if strings.TrimSpace(tr.Name) == "" {
			return nil, fmt.Errorf("trace %d has no name", i)
		}
	}
	return traces, nil
}

// Validate rejects parameter combinations the runner cannot execute.
func (p Params) Validate() error {
	if p.StepMM <= 0 {
		return fmt.Errorf("step_mm must be positive, got %v", p.StepMM)
	}
	if p.XMax < p.XMin {
		return fmt.Errorf("x_max %v is below x_min %v", p.XMax, p.XMin)
	}
	if p.YMax < p.YMin {
		return fmt.Errorf("y_max %v is below y_min %v", p.YMax, p.YMin)
	}
	if p.Feed <= 0 {
		return fmt.Errorf("feed must be positive, got %v", p.Feed)
	}
	if p.FreqHz <= 0 {
		return fmt.Errorf("freq_hz must be positive, got %v", p.FreqHz)
	}
	return nil
}

// Encode serializes the effective parameters back to JSON so the task record
// carries the fully resolved configuration.
func (p Params) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode scan params: %w", err)
	}
	return string(data), nil
}
