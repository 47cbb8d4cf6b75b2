package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"xst/internal/layout"
	"xst/internal/types"
)

// Entry is one browsable type: its canonical header and computed layout.
type Entry struct {
	Type     *types.Header
	Metatype *layout.Metatype
}

type entryItem struct {
	entry Entry
}

func (i entryItem) Title() string { return i.entry.Type.Description() }

func (i entryItem) Description() string {
	m := i.entry.Metatype
	kind := "trivial"
	if !m.Trivial() {
		kind = "owning"
	}
	return fmt.Sprintf("size %d · align %d · %s", m.Size(), m.Align(), kind)
}

func (i entryItem) FilterValue() string { return i.entry.Type.Description() }

type browserModel struct {
	list    list.Model
	entries []Entry
	width   int
	height  int
}

// NewBrowserModel returns a Bubble Tea model that lets the user browse the
// defined types of a manifest: a filterable list on the left, the selected
// type's layout table on the right.
func NewBrowserModel(title string, entries []Entry) tea.Model {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 40, 20)
	l.Title = title
	l.SetShowStatusBar(false)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))

	return &browserModel{
		list:    l,
		entries: entries,
		width:   80,
		height:  24,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.list.FilterState() != list.Filtering {
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.height = msg.Height
			listWidth := msg.Width / 2
			if listWidth < 30 {
				listWidth = 30
			}
			m.list.SetSize(listWidth, msg.Height-2)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *browserModel) View() string {
	detail := ""
	if item, ok := m.list.SelectedItem().(entryItem); ok {
		detail = renderDetail(item.entry, m.width-m.list.Width()-4)
	}
	detailStyle := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("8"))
	return lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), detailStyle.Render(detail))
}

func renderDetail(e Entry, width int) string {
	m := e.Metatype
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(headStyle.Render(e.Type.Description()))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "size      %d\n", m.Size())
	fmt.Fprintf(&b, "align     %d\n", m.Align())
	fmt.Fprintf(&b, "stride    %d\n", m.Stride())
	fmt.Fprintf(&b, "trivial   %t\n", m.Trivial())

	if m.FieldsLen() == 0 {
		return b.String()
	}

	b.WriteString("\n")
	label := "fields"
	if e.Type.Tag() == types.TagEnum {
		label = "variants"
	}
	b.WriteString(dimStyle.Render(label))
	b.WriteString("\n")

	nameWidth := 0
	for i := 0; i < m.FieldsLen(); i++ {
		w := runewidth.StringWidth(m.Field(i).Type.Description())
		if w > nameWidth {
			nameWidth = w
		}
	}
	maxName := width - 24
	if maxName < 12 {
		maxName = 12
	}
	if nameWidth > maxName {
		nameWidth = maxName
	}

	for i := 0; i < m.FieldsLen(); i++ {
		f := m.Field(i)
		name := truncate(f.Type.Description(), nameWidth)
		placement := "in-line"
		if f.OutOfLine {
			placement = "boxed"
		}
		offset := fieldOffset(e.Type, m, i)
		fmt.Fprintf(&b, "  %2d  %s  %-7s  @%d\n", i, runewidth.FillRight(name, nameWidth), placement, offset)
	}
	if e.Type.Tag() == types.TagEnum && m.OffsetsLen() >= 2 {
		fmt.Fprintf(&b, "  tag %s  u16      @%d\n", runewidth.FillRight("", nameWidth), m.Offset(1))
	}
	return b.String()
}

// fieldOffset reports where the i-th field lives: variants of a tagged enum
// all share the payload slot.
func fieldOffset(t *types.Header, m *layout.Metatype, i int) int {
	if t.Tag() == types.TagEnum {
		return m.Offset(0)
	}
	return m.Offset(i)
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
