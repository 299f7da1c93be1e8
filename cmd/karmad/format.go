package main

import (
	"encoding/json"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"karmad/internal/karma"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatTOML  OutputFormat = "toml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatHuman, FormatJSON, FormatYAML, FormatTOML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (want human, json, yaml, or toml)", s)
	}
}

// RangeDoc is the serialized form of a tier. Infinite bounds and the
// timeout are re-rendered as the literals a ranges file would use, since
// ±Inf has no JSON encoding.
type RangeDoc struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	RangeMin    string `json:"rangeMin" yaml:"rangeMin" toml:"rangeMin"`
	RangeMax    string `json:"rangeMax" yaml:"rangeMax" toml:"rangeMax"`
	EnablePlus  bool   `json:"enablePlus" yaml:"enablePlus" toml:"enablePlus"`
	EnableMinus bool   `json:"enableMinus" yaml:"enableMinus" toml:"enableMinus"`
	PlusValue   int    `json:"plusValue" yaml:"plusValue" toml:"plusValue"`
	MinusValue  int    `json:"minusValue" yaml:"minusValue" toml:"minusValue"`
	DayMax      string `json:"dayMax" yaml:"dayMax" toml:"dayMax"`
	Timeout     string `json:"timeout" yaml:"timeout" toml:"timeout"`
}

// NewRangeDoc converts a tier into its serialized form.
func NewRangeDoc(r karma.Range) RangeDoc {
	return RangeDoc{
		Name:        r.Name,
		RangeMin:    karma.FormatBound(r.Min),
		RangeMax:    karma.FormatBound(r.Max),
		EnablePlus:  r.EnablePlus,
		EnableMinus: r.EnableMinus,
		PlusValue:   r.PlusValue,
		MinusValue:  r.MinusValue,
		DayMax:      karma.FormatBound(r.DayMax),
		Timeout:     karma.FormatTimeout(r.Timeout),
	}
}

// Marshal renders a document in the requested structured format.
// Human output is command-specific and handled by each command.
func Marshal(doc interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return string(data), nil
	case FormatTOML:
		data, err := toml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// humanRangeLine renders one tier for terminal output.
func humanRangeLine(r karma.Range) string {
	plus := "+"
	if !r.EnablePlus {
		plus = " "
	}
	minus := "-"
	if !r.EnableMinus {
		minus = " "
	}
	return fmt.Sprintf("%-12s [%s, %s]  %s%s  plus=%d minus=%d day_max=%s timeout=%s",
		r.Name,
		karma.FormatBound(r.Min), karma.FormatBound(r.Max),
		plus, minus,
		r.PlusValue, r.MinusValue,
		karma.FormatBound(r.DayMax), karma.FormatTimeout(r.Timeout))
}
