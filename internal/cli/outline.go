package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polisher/pkg/docx"
	"github.com/matzehuels/polisher/pkg/errors"
	"github.com/matzehuels/polisher/pkg/outline"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
)

// outlineOpts holds the flags of the outline command.
type outlineOpts struct {
	output string // output file; stdout when empty
	format string // svg or dot
	brand  string // theme used for colors
}

// outlineCommand creates the outline command.
func (c *CLI) outlineCommand() *cobra.Command {
	var opts outlineOpts

	cmd := &cobra.Command{
		Use:   "outline <input.docx>",
		Short: "Draw a document's heading hierarchy",
		Example: `  polisher outline report.docx -o outline.svg
  polisher outline report.docx --format dot --brand stripe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(opts.format)
			if format != formatSVG && format != formatDOT {
				return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (use svg or dot)", opts.format)
			}

			doc, err := docx.ReadFile(args[0])
			if err != nil {
				return err
			}

			var gopts outline.Options
			if opts.brand != "" {
				reg, err := c.registry()
				if err != nil {
					return err
				}
				t, err := reg.Lookup(opts.brand)
				if err != nil {
					return err
				}
				gopts.Theme = &t
			}

			root := outline.Build(doc)
			dot := outline.ToDOT(root, gopts)
			loggerFromContext(cmd.Context()).Debug("outline built", "headings", root.Count())

			data := []byte(dot)
			if format == formatSVG {
				if data, err = outline.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
			}

			if opts.output == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printSuccess("Outline written")
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: svg or dot")
	cmd.Flags().StringVarP(&opts.brand, "brand", "b", "", "color the diagram with a brand theme")

	return cmd
}
