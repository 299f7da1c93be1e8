package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	kerrors "karmad/internal/errors"
	"karmad/internal/karma"
)

var (
	lookupDefaultOnMiss bool
	lookupStrict        bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup KARMA",
	Short: "Resolve a karma value to its tier",
	Long: `Lookup resolves a numeric karma value against the validated tier
table. A value falling in a gap between tiers is reported as a miss; that
is an ordinary outcome, not an error, unless --strict is set.

Examples:
  karmad lookup 42
  karmad lookup -- -10
  karmad lookup 42 --default-on-miss
  karmad lookup 42 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupDefaultOnMiss, "default-on-miss", false,
		"Fall back to the default tier when no tier contains the value")
	lookupCmd.Flags().BoolVar(&lookupStrict, "strict", false,
		"Exit non-zero on a miss")
	rootCmd.AddCommand(lookupCmd)
}

// LookupDoc is the structured output of the lookup command.
type LookupDoc struct {
	Karma   string    `json:"karma" yaml:"karma" toml:"karma"`
	Found   bool      `json:"found" yaml:"found" toml:"found"`
	Default bool      `json:"default" yaml:"default" toml:"default"`
	Range   *RangeDoc `json:"range,omitempty" yaml:"range,omitempty" toml:"range,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("karma value must be a number, got %q", args[0])
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	reg, err := karma.Load(resolveRangesPath(cfg))
	if err != nil {
		return err
	}

	doc := LookupDoc{Karma: karma.FormatBound(value)}
	r, lookupErr := reg.Lookup(value)
	switch {
	case lookupErr == nil:
		doc.Found = true
	case kerrors.IsCode(lookupErr, kerrors.RangeNotFound) && lookupDefaultOnMiss:
		r = reg.Default()
		doc.Default = true
	case kerrors.IsCode(lookupErr, kerrors.RangeNotFound):
		// Miss without fallback; r stays empty.
	default:
		return lookupErr
	}

	if doc.Found || doc.Default {
		rd := NewRangeDoc(r)
		doc.Range = &rd
	}

	if format != FormatHuman {
		out, err := Marshal(doc, format)
		if err != nil {
			return err
		}
		cmd.Print(out)
	} else {
		switch {
		case doc.Found:
			cmd.Printf("karma %s -> %s\n", doc.Karma, r.Name)
			cmd.Println("  " + humanRangeLine(r))
		case doc.Default:
			cmd.Printf("karma %s -> %s (default, no tier matched)\n", doc.Karma, r.Name)
			cmd.Println("  " + humanRangeLine(r))
		default:
			cmd.Printf("karma %s matches no tier\n", doc.Karma)
		}
	}

	if lookupStrict && !doc.Found && !doc.Default {
		return lookupErr
	}
	return nil
}
