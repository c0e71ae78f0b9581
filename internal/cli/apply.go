package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polisher/pkg/cache"
	"github.com/matzehuels/polisher/pkg/errors"
	"github.com/matzehuels/polisher/pkg/pipeline"
	"github.com/matzehuels/polisher/pkg/reportstore"
)

// applyOpts holds the flags of the apply command.
type applyOpts struct {
	list     bool // print the brand menu and exit
	noCache  bool // bypass the styled-document cache
	refresh  bool // ignore cached results but store fresh ones
	force    bool // overwrite existing outputs without asking
	report   bool // print every quality issue
	parallel int  // concurrent brands; 0 uses the config value
}

// applyCommand creates the apply command.
func (c *CLI) applyCommand() *cobra.Command {
	var opts applyOpts

	cmd := &cobra.Command{
		Use:   "apply <input.docx> <brand|b1,b2|all> <output|prefix>",
		Short: "Restyle a document with one or more brand themes",
		Long: `Apply brand themes to a .docx document.

A single brand writes to the output path as given. Several brands (a
comma-separated list or "all") write <prefix>_<brand>.docx each; a prefix
ending in .docx gets the brand inserted before the extension.

The command exits non-zero when any brand fails.`,
		Example: `  polisher apply report.docx mckinsey report_mck.docx
  polisher apply report.docx stripe,ibm out/report
  polisher apply report.docx all out/report --report
  polisher apply --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return c.printBrandMenu()
			}
			return c.runApply(cmd.Context(), args[0], args[1], args[2], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.list, "list", false, "list available brands and exit")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the styled-document cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "restyle even when a cached result exists")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite existing output files")
	cmd.Flags().BoolVar(&opts.report, "report", false, "print the full quality report for each brand")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 0, "number of brands styled concurrently")

	return cmd
}

func (c *CLI) runApply(ctx context.Context, input, brandArg, output string, opts applyOpts) error {
	logger := loggerFromContext(ctx)

	if err := errors.ValidateDocxPath(input); err != nil {
		return err
	}
	src, err := os.ReadFile(input)
	if err != nil {
		return errors.SourceRead(err, "read %s", input)
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ids, err := runner.Registry.Select(brandArg)
	if err != nil {
		return err
	}

	parallel := opts.parallel
	if parallel <= 0 {
		parallel = c.config().Parallel
	}
	popts := pipeline.Options{
		Source:     src,
		SourcePath: input,
		Brands:     ids,
		Output:     output,
		Overwrite:  opts.force,
		Parallel:   parallel,
		Refresh:    opts.refresh,
		Logger:     logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	if !popts.Overwrite {
		if existing := existingFiles(popts.OutputPaths()); len(existing) > 0 && interactive() {
			for _, p := range existing {
				printWarning("%s exists", p)
			}
			ok, err := confirm(ctx, fmt.Sprintf("Overwrite %d existing file(s)?", len(existing)), "Use --force to skip this question.")
			if err != nil {
				return err
			}
			if !ok {
				return errAborted
			}
			popts.Overwrite = true
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Styling %d brand(s)...", len(ids)))
	spinner.Start()
	batch, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.Done(logger, fmt.Sprintf("Styled %d brand(s)", len(ids)))

	c.recordRuns(ctx, batch, input, src)

	for _, r := range batch.Results {
		printResult(r)
		if opts.report && r.Err == nil {
			printReport(r.Report)
			printNewline()
		}
	}

	if failed := batch.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d brands failed", len(failed), len(batch.Results))
	}
	if len(batch.Results) > 0 && !opts.report {
		printNewline()
		printNextStep("Full report", fmt.Sprintf("polisher validate %s", batch.Results[0].OutputPath))
	}
	return nil
}

// recordRuns saves a record per successful run. Failures are logged only.
func (c *CLI) recordRuns(ctx context.Context, batch *pipeline.Batch, input string, src []byte) {
	logger := loggerFromContext(ctx)
	store, err := c.runStore()
	if err != nil {
		logger.Debug("run history disabled", "error", err)
		return
	}
	defer store.Close()

	hash := cache.Hash(src)
	for _, r := range batch.Results {
		if r.Err != nil {
			continue
		}
		rec := reportstore.NewRecord(r.RunID, r.Brand, hash, r.Report)
		rec.Source = input
		rec.CacheHit = r.CacheHit
		rec.Duration = r.Stats.Total
		if err := store.Save(ctx, rec); err != nil {
			logger.Debug("save run record", "run", r.RunID, "error", err)
		}
	}
}

// existingFiles returns the paths in outputs that already exist, sorted.
func existingFiles(outputs map[string]string) []string {
	var out []string
	for _, p := range outputs {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
