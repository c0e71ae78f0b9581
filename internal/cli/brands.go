package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/polisher/pkg/brand"
)

// brandsCommand creates the brands command and its subcommands.
func (c *CLI) brandsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brands",
		Short: "List and inspect brand presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printBrandMenu()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List brands grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printBrandMenu()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <brand>",
		Short: "Show a brand's colors, fonts and text styles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}
			t, err := reg.Lookup(args[0])
			if err != nil {
				return err
			}
			printTheme(t)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check every brand preset for missing or malformed values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}
			bad := 0
			for _, t := range reg.Themes() {
				if err := t.Validate(); err != nil {
					printError("%s %s", StyleHighlight.Render(t.ID), StyleError.Render(err.Error()))
					bad++
					continue
				}
				printSuccess("%s", t.ID)
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d brands are invalid", bad, reg.Len())
			}
			return nil
		},
	})

	return cmd
}

// printBrandMenu prints every brand in category order.
func (c *CLI) printBrandMenu() error {
	reg, err := c.registry()
	if err != nil {
		return err
	}
	emit(renderBrandMenu(reg))
	printNewline()
	printNextStep("Apply a brand", "polisher apply <input.docx> <brand> <output.docx>")
	return nil
}

var titleCaser = cases.Title(language.English)

// categoryTitle turns "tech" into "Tech".
func categoryTitle(cat string) string {
	if cat == "" {
		return "Other"
	}
	return titleCaser.String(strings.ReplaceAll(cat, "_", " "))
}

func renderBrandMenu(reg *brand.Registry) string {
	var sections []string
	for _, g := range reg.ByCategory() {
		rows := make([][]string, 0, len(g.Themes))
		for _, t := range g.Themes {
			rows = append(rows, []string{
				t.ID,
				t.Name,
				swatch(t.Colors.Primary) + " " + swatch(t.Colors.Accent),
				t.Typography.HeadingFont + " / " + t.Typography.BodyFont,
			})
		}
		tbl := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(StyleDim).
			Headers("ID", "NAME", "COLORS", "FONTS").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				s := lipgloss.NewStyle().Padding(0, 1)
				switch {
				case row == table.HeaderRow:
					return s.Bold(true).Foreground(colorGray)
				case col == 0:
					return s.Foreground(colorCyan)
				case col == 3:
					return s.Foreground(colorGray)
				}
				return s
			})
		sections = append(sections, StyleTitle.Render(categoryTitle(g.Category))+"\n"+tbl.String())
	}
	return strings.Join(sections, "\n\n")
}

// swatch renders a color block followed by its hex value.
func swatch(hex string) string {
	c, err := brand.ParseHex(hex)
	if err != nil {
		return StyleError.Render(hex)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.String())).Render("■") + " " + c.String()
}

func printTheme(t brand.Theme) {
	emit(StyleTitle.Render(t.Name) + " " + StyleDim.Render("("+t.ID+")"))
	if t.Description != "" {
		printDetail("%s", t.Description)
	}
	printNewline()
	printKeyValue("Category", categoryTitle(t.Category))
	printKeyValue("Headings", t.Typography.HeadingFont)
	printKeyValue("Body", t.Typography.BodyFont)
	printKeyValue("Primary", swatch(t.Colors.Primary))
	printKeyValue("Accent", swatch(t.Colors.Accent))
	printKeyValue("Text", swatch(t.Colors.TextPrimary)+"  "+swatch(t.Colors.TextSecondary))
	if t.Elements.TableStyle != "" {
		printKeyValue("Tables", t.Elements.TableStyle)
	}
	printNewline()

	rows := make([][]string, 0, len(brand.RequiredStyles))
	for _, key := range brand.RequiredStyles {
		s, ok := t.Style(key)
		if !ok {
			rows = append(rows, []string{key, "-", "-", ""})
			continue
		}
		var flags []string
		if s.Bold {
			flags = append(flags, "bold")
		}
		if s.Italic {
			flags = append(flags, "italic")
		}
		rows = append(rows, []string{key, fmt.Sprintf("%gpt", s.Size), swatch(s.Color), strings.Join(flags, ",")})
	}
	emit(table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("STYLE", "SIZE", "COLOR", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(colorGray)
			}
			return s
		}).
		String())
}
