package main

import (
	"github.com/spf13/cobra"

	"karmad/internal/karma"
)

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Dump the validated tier table",
	Long: `Ranges prints every tier in ascending bound order plus the default
tier, in the requested format. Infinite bounds are rendered with the oo
sentinel and timeouts as unit literals, matching the ranges file syntax.

Examples:
  karmad ranges
  karmad ranges --format json
  karmad ranges --format toml`,
	RunE: runRanges,
}

func init() {
	rootCmd.AddCommand(rangesCmd)
}

// RangesDoc is the structured output of the ranges command.
type RangesDoc struct {
	Path    string     `json:"path" yaml:"path" toml:"path"`
	Default RangeDoc   `json:"default" yaml:"default" toml:"default"`
	Ranges  []RangeDoc `json:"ranges" yaml:"ranges" toml:"ranges"`
}

func runRanges(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	path := resolveRangesPath(cfg)

	reg, err := karma.Load(path)
	if err != nil {
		return err
	}

	if format == FormatHuman {
		cmd.Printf("%s: %d tiers\n\n", path, reg.Len())
		for _, r := range reg.Ranges() {
			cmd.Println("  " + humanRangeLine(r))
		}
		cmd.Println()
		cmd.Println("  default: " + humanRangeLine(reg.Default()))
		return nil
	}

	doc := RangesDoc{Path: path, Default: NewRangeDoc(reg.Default())}
	for _, r := range reg.Ranges() {
		doc.Ranges = append(doc.Ranges, NewRangeDoc(r))
	}

	out, err := Marshal(doc, format)
	if err != nil {
		return err
	}
	cmd.Print(out)
	return nil
}
