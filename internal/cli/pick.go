package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polisher/pkg/brand"
	"github.com/matzehuels/polisher/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCheckedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// pickCommand creates the pick command.
func (c *CLI) pickCommand() *cobra.Command {
	var opts applyOpts

	cmd := &cobra.Command{
		Use:   "pick <input.docx> <output|prefix>",
		Short: "Choose brands interactively, then apply them",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive() {
				return errors.New(errors.ErrCodeUnsupported, "pick needs a terminal; use apply instead")
			}
			reg, err := c.registry()
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(NewBrandPickerModel(reg), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			m := final.(BrandPickerModel)
			if m.Cancelled {
				return errAborted
			}
			return c.runApply(cmd.Context(), args[0], strings.Join(m.Chosen(), ","), args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the styled-document cache")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite existing output files")
	cmd.Flags().BoolVar(&opts.report, "report", false, "print the full quality report for each brand")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 0, "number of brands styled concurrently")

	return cmd
}

// =============================================================================
// BrandPickerModel - Interactive brand multi-select
// =============================================================================

// pickerItem is one line of the picker: a category heading or a brand.
type pickerItem struct {
	heading string
	theme   brand.Theme
}

// BrandPickerModel is the bubbletea model for choosing brands.
type BrandPickerModel struct {
	Items     []pickerItem
	Cursor    int
	Checked   map[string]bool
	Cancelled bool
	Height    int
	Offset    int
}

// NewBrandPickerModel lists the registry's brands grouped by category.
func NewBrandPickerModel(reg *brand.Registry) BrandPickerModel {
	var items []pickerItem
	for _, g := range reg.ByCategory() {
		items = append(items, pickerItem{heading: categoryTitle(g.Category)})
		for _, t := range g.Themes {
			items = append(items, pickerItem{theme: t})
		}
	}
	m := BrandPickerModel{Items: items, Checked: make(map[string]bool), Height: 20}
	m.Cursor = m.next(-1, 1)
	return m
}

// Chosen returns the checked brand IDs in menu order.
func (m BrandPickerModel) Chosen() []string {
	var out []string
	for _, it := range m.Items {
		if it.heading == "" && m.Checked[it.theme.ID] {
			out = append(out, it.theme.ID)
		}
	}
	return out
}

// next returns the first brand line after from in direction dir, or from
// when there is none.
func (m BrandPickerModel) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if m.Items[i].heading == "" {
			return i
		}
	}
	return from
}

func (m BrandPickerModel) Init() tea.Cmd {
	return nil
}

func (m BrandPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			return m, tea.Quit
		case "up", "k":
			m.Cursor = m.next(m.Cursor, -1)
			if m.Cursor-1 < m.Offset {
				m.Offset = max(0, m.Cursor-1)
			}
		case "down", "j":
			m.Cursor = m.next(m.Cursor, 1)
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		case " ", "space", "x":
			if m.Cursor >= 0 && m.Cursor < len(m.Items) {
				id := m.Items[m.Cursor].theme.ID
				m.Checked = toggled(m.Checked, id)
			}
		case "a":
			all := len(m.Chosen()) < m.brandCount()
			checked := make(map[string]bool)
			if all {
				for _, it := range m.Items {
					if it.heading == "" {
						checked[it.theme.ID] = true
					}
				}
			}
			m.Checked = checked
		case "enter":
			if len(m.Chosen()) == 0 {
				return m, nil
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BrandPickerModel) brandCount() int {
	n := 0
	for _, it := range m.Items {
		if it.heading == "" {
			n++
		}
	}
	return n
}

// toggled returns a copy of checked with id flipped.
func toggled(checked map[string]bool, id string) map[string]bool {
	out := make(map[string]bool, len(checked)+1)
	for k, v := range checked {
		if v {
			out[k] = true
		}
	}
	if out[id] {
		delete(out, id)
	} else {
		out[id] = true
	}
	return out
}

func (m BrandPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Brands"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ apply  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		if it.heading != "" {
			b.WriteString(listDimStyle.Render(it.heading))
			b.WriteString("\n")
			continue
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Checked[it.theme.ID] {
			box = listCheckedStyle.Render("[x]")
		}
		name := listNormalStyle.Render(it.theme.Name)
		if i == m.Cursor {
			name = listSelectedStyle.Render(it.theme.Name)
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s\n", cursor, box, name, listDimStyle.Render(it.theme.ID)))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected", len(m.Chosen()))))
	return b.String()
}
