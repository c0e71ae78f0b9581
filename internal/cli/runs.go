package cli

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polisher/pkg/errors"
	"github.com/matzehuels/polisher/pkg/reportstore"
)

// runsCommand creates the runs command.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded apply and validate runs",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.runStore()
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No runs recorded")
				printDetail("Directory: %s", store.Path())
				return nil
			}
			emit(renderRuns(recs))
			return nil
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show")

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run's quality report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.runStore()
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				if stderrors.Is(err, reportstore.ErrNotFound) {
					return errors.New(errors.ErrCodeNotFound, "run %s not found", args[0])
				}
				return err
			}
			printRecord(rec)
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func renderRuns(recs []*reportstore.Record) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		b := r.Brand
		if b == "" {
			b = "-"
		}
		rows = append(rows, []string{
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			b,
			r.Level.String(),
			fmt.Sprintf("%d", len(r.Issues)),
			r.Source,
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("RUN", "WHEN", "BRAND", "QUALITY", "ISSUES", "SOURCE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(colorGray)
			}
			switch col {
			case 0, 1:
				return s.Foreground(colorDim)
			case 3:
				return s.Inherit(levelStyle(recs[row].Level))
			}
			return s
		}).
		String()
}

func printRecord(rec *reportstore.Record) {
	printKeyValue("Run", rec.ID)
	if rec.Brand != "" {
		printKeyValue("Brand", rec.Brand)
	}
	if rec.Source != "" {
		printKeyValue("Source", rec.Source)
	}
	printKeyValue("When", rec.CreatedAt.Local().Format(time.DateTime))
	if rec.Duration > 0 {
		printKeyValue("Duration", rec.Duration.Round(time.Millisecond).String())
	}
	if rec.CacheHit {
		printKeyValue("Cache", iconCached)
	}
	printNewline()
	emit(renderReport(rec.Level, rec.Issues))
}
