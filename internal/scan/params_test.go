package scan

import (
	"encoding/json"
	"testing"

	"nfscan/internal/config"
)

func TestParseParamsDefaults(t *testing.T) {
	cfg := config.Default()
	p, err := ParseParams("", &cfg)
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if p.XMin != cfg.Scan.Area.XMin || p.XMax != cfg.Scan.Area.XMax {
		t.Fatalf("expected configured area, got %+v", p)
	}
	if p.StepMM != cfg.Scan.StepMM || p.FreqHz != cfg.Scan.FreqHz {
		t.Fatalf("expected configured scan defaults, got %+v", p)
	}
}

func TestParseParamsOverlay(t *testing.T) {
	cfg := config.Default()
	p, err := ParseParams(`{"x_min": -1, "x_max": 1, "step_mm": 0.5}`, &cfg)
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if p.XMin != -1 || p.XMax != 1 || p.StepMM != 0.5 {
		t.Fatalf("expected overlaid values, got %+v", p)
	}
	// Fields the payload omits keep their defaults.
	if p.YMin != cfg.Scan.Area.YMin || p.Feed != cfg.Scan.Feed {
		t.Fatalf("expected retained defaults, got %+v", p)
	}
}

func TestParseParamsRejectsInvalid(t *testing.T) {
	cfg := config.Default()

	cases := map[string]string{
		"zero step":     `{"step_mm": 0}`,
		"inverted x":    `{"x_min": 5, "x_max": -5}`,
		"inverted y":    `{"y_min": 5, "y_max": -5}`,
		"negative feed": `{"feed": -100}`,
		"zero freq":     `{"freq_hz": 0}`,
		"bad json":      `{"step_mm": `,
	}
	for name, payload := range cases {
		if _, err := ParseParams(payload, &cfg); err == nil {
			t.Errorf("%s: expected error for %q", name, payload)
		}
	}
}

func TestParamsEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	p, err := ParseParams(`{"step_mm": 2.5}`, &cfg)
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	encoded, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded Params
	if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("decode encoded params: %v", err)
	}
	if decoded != p {
		t.Fatalf("round trip mismatch: %+v != %+v", decoded, p)
	}
}

func TestParseTraces(t *testing.T) {
	traces, err := ParseTraces("")
	if err != nil {
		t.Fatalf("ParseTraces: %v", err)
	}
	if len(traces) != 1 || traces[0].Name != "S21" {
		t.Fatalf("expected default trace, got %+v", traces)
	}

	traces, err = ParseTraces(`[{"name":"S21"},{"name":"S11","kind":"phase","unit":"deg"}]`)
	if err != nil {
		t.Fatalf("ParseTraces: %v", err)
	}
	if len(traces) != 2 || traces[1].Kind != "phase" {
		t.Fatalf("unexpected traces %+v", traces)
	}

	if _, err := ParseTraces(`[{"kind":"phase"}]`); err == nil {
		t.Fatal("expected unnamed trace to be rejected")
	}
	if _, err := ParseTraces(`[not json]`); err == nil {
		t.Fatal("expected malformed list to be rejected")
	}

	traces, err = ParseTraces(`[]`)
	if err != nil {
		t.Fatalf("ParseTraces empty list: %v", err)
	}
	if len(traces) != 1 || traces[0].Name != "S21" {
		t.Fatalf("expected default trace for empty list, got %+v", traces)
	}
}
