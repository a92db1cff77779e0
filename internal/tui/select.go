// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/scribe/internal/search"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user selected an item.
	ActionSelected
	// ActionCancelled indicates the user left without selecting.
	ActionCancelled
)

// SelectionResult holds the result of a TUI selection.
type SelectionResult struct {
	Action    SelectionAction
	Selection *search.Candidate
}

type candidateItem struct {
	search.Candidate
}

func (i candidateItem) Title() string {
	if i.Year != "" {
		return fmt.Sprintf("%s (%s)", i.Candidate.Title, i.Year)
	}
	return i.Candidate.Title
}

func (i candidateItem) FilterValue() string {
	return i.Candidate.Title
}

func (i candidateItem) Description() string {
	return strings.Join(i.Authors, ", ")
}

type itemStyles struct {
	normal      lipgloss.Style
	selected    lipgloss.Style
	sourceStyle lipgloss.Style
	titleStyle  lipgloss.Style
	metaStyle   lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		sourceStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		metaStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
	}
}

type candidateDelegate struct {
	styles itemStyles
}

func newDelegate() candidateDelegate {
	return candidateDelegate{styles: newItemStyles()}
}

func (d candidateDelegate) Height() int                         { return 4 }
func (d candidateDelegate) Spacing() int                        { return 1 }
func (d candidateDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d candidateDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	c, ok := item.(candidateItem)
	if !ok {
		return
	}

	sourceLine := d.styles.sourceStyle.Render(fmt.Sprintf("[%s]", strings.ToUpper(c.Source)))
	titleLine := d.styles.titleStyle.Render(c.Title())
	metaLine := d.styles.metaStyle.Render(truncate(formatCandidateMeta(c.Candidate), m.Width()-4))

	content := lipgloss.JoinVertical(lipgloss.Left, sourceLine, titleLine, metaLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type model struct {
	list        list.Model
	searchQuery string
	result      SelectionResult
}

func newModel(query string, items []candidateItem) *model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	delegate := newDelegate()
	l := list.New(listItems, delegate, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		list:        l,
		searchQuery: query,
		result: SelectionResult{
			Action: ActionNone,
		},
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(candidateItem); ok {
				candidate := selected.Candidate
				m.result = SelectionResult{
					Action:    ActionSelected,
					Selection: &candidate,
				}
				return m, tea.Quit
			}
		case "ctrl+c", "q", "esc":
			m.result = SelectionResult{Action: ActionCancelled}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(fmt.Sprintf("Search results for: %s", m.searchQuery))
	listView := m.list.View()
	help := helpStyle.Render("Up/Down navigate | Enter select | q cancel")
	return lipgloss.JoinVertical(lipgloss.Left, header, listView, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Select presents an interactive selection UI for search candidates.
func Select(query string, candidates []search.Candidate) (SelectionResult, error) {
	if len(candidates) == 0 {
		return SelectionResult{Action: ActionCancelled}, nil
	}

	items := make([]candidateItem, len(candidates))
	for i, c := range candidates {
		items[i] = candidateItem{Candidate: c}
	}
	m := newModel(query, items)
	finalModel, err := runProgram(m)
	if err != nil {
		return SelectionResult{}, err
	}

	if typed, ok := finalModel.(*model); ok {
		return typed.result, nil
	}

	return SelectionResult{}, fmt.Errorf("unexpected program result")
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

// formatCandidateMeta creates the metadata line with authors and publisher.
func formatCandidateMeta(c search.Candidate) string {
	var parts []string

	if len(c.Authors) > 0 {
		parts = append(parts, strings.Join(c.Authors, ", "))
	}
	if c.Publisher != "" {
		parts = append(parts, c.Publisher)
	}

	if len(parts) == 0 {
		return "No metadata available"
	}
	return strings.Join(parts, " | ")
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
