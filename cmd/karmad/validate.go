package main

import (
	"github.com/spf13/cobra"

	"karmad/internal/errorlog"
	kerrors "karmad/internal/errors"
	"karmad/internal/karma"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the ranges file",
	Long: `Validate parses the ranges file, builds the registry, and reports
either the tier table or the fatal configuration error. The exit code is
non-zero when the file is rejected, so it can gate deployments.

Examples:
  karmad validate
  karmad validate --ranges /etc/karmad/karma.conf
  karmad validate --format json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// ValidateDoc is the structured output of the validate command.
type ValidateDoc struct {
	Valid       bool              `json:"valid" yaml:"valid" toml:"valid"`
	Path        string            `json:"path" yaml:"path" toml:"path"`
	Error       string            `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	Code        string            `json:"code,omitempty" yaml:"code,omitempty" toml:"code,omitempty"`
	Hints       []kerrors.FixHint `json:"hints,omitempty" yaml:"hints,omitempty" toml:"hints,omitempty"`
	Default     *RangeDoc         `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	Ranges      []RangeDoc        `json:"ranges,omitempty" yaml:"ranges,omitempty" toml:"ranges,omitempty"`
	Diagnostics []errorlog.Entry  `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" toml:"diagnostics,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	path := resolveRangesPath(cfg)

	mem := errorlog.NewMemory(50)
	reg, buildErr := karma.LoadWithReporter(path, mem)

	doc := ValidateDoc{Valid: buildErr == nil, Path: path}
	if buildErr != nil {
		doc.Error = buildErr.Error()
		doc.Code = string(kerrors.CodeOf(buildErr))
		doc.Hints = kerrors.HintsFor(kerrors.CodeOf(buildErr))
		doc.Diagnostics = mem.Recent(0)
	} else {
		def := NewRangeDoc(reg.Default())
		doc.Default = &def
		for _, r := range reg.Ranges() {
			doc.Ranges = append(doc.Ranges, NewRangeDoc(r))
		}
	}

	if format != FormatHuman {
		out, err := Marshal(doc, format)
		if err != nil {
			return err
		}
		cmd.Print(out)
		return buildErr
	}

	if buildErr != nil {
		cmd.Printf("✗ %s is invalid\n\n", path)
		cmd.Printf("  %s\n", buildErr.Error())
		if hints := kerrors.HintsFor(kerrors.CodeOf(buildErr)); len(hints) > 0 {
			cmd.Println()
			cmd.Println("  Suggested fixes:")
			for _, h := range hints {
				cmd.Printf("    - %s\n", h.Description)
				if h.Example != "" {
					cmd.Printf("      %s\n", h.Example)
				}
			}
		}
		return buildErr
	}

	cmd.Printf("✓ %s: %d tiers\n\n", path, reg.Len())
	for _, r := range reg.Ranges() {
		cmd.Println("  " + humanRangeLine(r))
	}
	cmd.Println()
	cmd.Println("  default: " + humanRangeLine(reg.Default()))
	return nil
}
