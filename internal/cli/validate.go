package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polisher/pkg/cache"
	"github.com/matzehuels/polisher/pkg/errors"
	"github.com/matzehuels/polisher/pkg/quality"
	"github.com/matzehuels/polisher/pkg/reportstore"
)

// validateOpts holds the flags of the validate command.
type validateOpts struct {
	json   bool   // print the report as JSON
	failOn string // exit non-zero at or below this verdict
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var opts validateOpts

	cmd := &cobra.Command{
		Use:   "validate <input.docx>",
		Short: "Report on the formatting quality of a document",
		Long: `Run the quality checks on an existing document without restyling it.

Checks cover typography, tables, spacing, heading structure and page
layout. The verdict is one of PERFECT, ACCEPTABLE, NEEDS_ATTENTION or FAILED.`,
		Example: `  polisher validate report_mck.docx
  polisher validate report.docx --json
  polisher validate report.docx --fail-on NEEDS_ATTENTION`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if err := errors.ValidateDocxPath(input); err != nil {
				return err
			}

			var failOn quality.Level
			if opts.failOn != "" {
				l, err := quality.ParseLevel(opts.failOn)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "--fail-on")
				}
				failOn = l
			}

			src, err := os.ReadFile(input)
			if err != nil {
				return errors.SourceRead(err, "read %s", input)
			}
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			rep, _, err := runner.Validate(cmd.Context(), src)
			if err != nil {
				return err
			}

			runID := uuid.New().String()
			c.recordValidation(cmd, runID, input, src, rep)

			if opts.json {
				data, err := json.MarshalIndent(struct {
					RunID  string          `json:"run_id"`
					Source string          `json:"source"`
					Report *quality.Report `json:"report"`
				}{runID, input, rep}, "", "  ")
				if err != nil {
					return err
				}
				emit(string(data))
			} else {
				printReport(rep)
			}

			if opts.failOn != "" && rep.Level() >= failOn {
				return fmt.Errorf("quality %s", rep.Level())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&opts.failOn, "fail-on", "", "exit non-zero when the verdict is this level or worse (e.g. NEEDS_ATTENTION)")

	return cmd
}

func (c *CLI) recordValidation(cmd *cobra.Command, runID, input string, src []byte, rep *quality.Report) {
	logger := loggerFromContext(cmd.Context())
	store, err := c.runStore()
	if err != nil {
		logger.Debug("run history disabled", "error", err)
		return
	}
	defer store.Close()

	rec := reportstore.NewRecord(runID, "", cache.Hash(src), rep)
	rec.Source = input
	if err := store.Save(cmd.Context(), rec); err != nil {
		logger.Debug("save run record", "run", runID, "error", err)
	}
}
