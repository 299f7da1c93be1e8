package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"karmad/internal/karma"
)

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"human", "json", "yaml", "toml"} {
		if _, err := ParseFormat(valid); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", valid, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func testRange() karma.Range {
	return karma.Range{
		Name:        "positive",
		Min:         10,
		Max:         math.Inf(1),
		EnablePlus:  true,
		EnableMinus: false,
		PlusValue:   2,
		MinusValue:  1,
		DayMax:      math.Inf(1),
		Timeout:     30 * time.Minute,
	}
}

func TestNewRangeDoc_SentinelRendering(t *testing.T) {
	doc := NewRangeDoc(testRange())

	if doc.RangeMin != "10" {
		t.Errorf("RangeMin = %q, want 10", doc.RangeMin)
	}
	if doc.RangeMax != "oo" {
		t.Errorf("RangeMax = %q, want oo", doc.RangeMax)
	}
	if doc.DayMax != "oo" {
		t.Errorf("DayMax = %q, want oo", doc.DayMax)
	}
	if doc.Timeout != "30m" {
		t.Errorf("Timeout = %q, want 30m", doc.Timeout)
	}
}

func TestMarshal_JSON(t *testing.T) {
	out, err := Marshal(NewRangeDoc(testRange()), FormatJSON)
	if err != nil {
		t.Fatalf("Marshal(json) error = %v", err)
	}
	for _, want := range []string{`"name": "positive"`, `"rangeMax": "oo"`, `"timeout": "30m"`} {
		if !strings.Contains(out, want) {
			t.Errorf("json output missing %q:\n%s", want, out)
		}
	}
}

func TestMarshal_YAML(t *testing.T) {
	out, err := Marshal(NewRangeDoc(testRange()), FormatYAML)
	if err != nil {
		t.Fatalf("Marshal(yaml) error = %v", err)
	}
	if !strings.Contains(out, "name: positive") || !strings.Contains(out, "rangeMax: oo") {
		t.Errorf("yaml output = %s", out)
	}
}

func TestMarshal_TOML(t *testing.T) {
	out, err := Marshal(RangesDoc{
		Path:    "karma.conf",
		Default: NewRangeDoc(testRange()),
		Ranges:  []RangeDoc{NewRangeDoc(testRange())},
	}, FormatTOML)
	if err != nil {
		t.Fatalf("Marshal(toml) error = %v", err)
	}
	if !strings.Contains(out, "name = 'positive'") && !strings.Contains(out, `name = "positive"`) {
		t.Errorf("toml output = %s", out)
	}
	if !strings.Contains(out, "[[ranges]]") {
		t.Errorf("toml output missing ranges tables:\n%s", out)
	}
}

func TestHumanRangeLine(t *testing.T) {
	line := humanRangeLine(testRange())
	for _, want := range []string{"positive", "[10, oo]", "plus=2", "timeout=30m"} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q: %q", want, line)
		}
	}
}
