package main

import (
	"time"

	"github.com/spf13/cobra"

	"karmad/internal/errorlog"
)

var (
	errorsLimit int
	errorsClear bool
)

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Show recorded configuration diagnostics",
	Long: `Errors lists diagnostics recorded by watch: every rejected rebuild
and parse failure, newest last. The log lives in .karmad/errors.db under
the config directory and survives daemon restarts.

Examples:
  karmad errors
  karmad errors -n 5
  karmad errors --clear`,
	RunE: runErrors,
}

func init() {
	errorsCmd.Flags().IntVarP(&errorsLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
	errorsCmd.Flags().BoolVar(&errorsClear, "clear", false, "Delete all recorded diagnostics")
	rootCmd.AddCommand(errorsCmd)
}

// ErrorsDoc is the structured output of the errors command.
type ErrorsDoc struct {
	Entries []errorlog.Entry `json:"entries" yaml:"entries" toml:"entries"`
}

func runErrors(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	store, err := errorlog.OpenStore(errorlog.StorePath(configDir))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if errorsClear {
		if err := store.Clear(); err != nil {
			return err
		}
		cmd.Println("diagnostics cleared")
		return nil
	}

	entries, err := store.Recent(errorsLimit)
	if err != nil {
		return err
	}

	if format != FormatHuman {
		out, err := Marshal(ErrorsDoc{Entries: entries}, format)
		if err != nil {
			return err
		}
		cmd.Print(out)
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("no diagnostics recorded")
		return nil
	}
	for _, e := range entries {
		cmd.Printf("%s  %s\n", e.At.UTC().Format(time.RFC3339), e.Name)
		if e.Details != "" {
			cmd.Printf("    %s\n", e.Details)
		}
	}
	return nil
}
