package preview

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobcast/internal/model"
)

// Header (1 line) + status bar (1 line).
const pagerChrome = 2

var (
	pagerHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Foreground(lipgloss.Color("39"))

	pagerStatusStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236"))
)

type pagerModel struct {
	content  string
	starts   []int // first content line of every job
	jobs     int
	messages int

	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

func newPagerModel(jobs []model.Job, maxLen, width int) pagerModel {
	content, starts, messages := render(jobs, maxLen, width)
	return pagerModel{
		content:  content,
		starts:   starts,
		jobs:     len(jobs),
		messages: messages,
	}
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := max(m.height-pagerChrome, 1)
		if !m.ready {
			m.viewport = viewport.New(m.width, h)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = h
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "n", "tab":
			if line, ok := m.nextJob(); ok {
				m.viewport.SetYOffset(line)
			}
			return m, nil
		case "p", "shift+tab":
			if line, ok := m.prevJob(); ok {
				m.viewport.SetYOffset(line)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// nextJob returns the first line of the job after the one at the top.
func (m pagerModel) nextJob() (int, bool) {
	i := sort.SearchInts(m.starts, m.viewport.YOffset+1)
	if i == len(m.starts) {
		return 0, false
	}
	return m.starts[i], true
}

// prevJob returns the first line of the job before the one at the top.
func (m pagerModel) prevJob() (int, bool) {
	i := sort.SearchInts(m.starts, m.viewport.YOffset)
	if i == 0 {
		return 0, false
	}
	return m.starts[i-1], true
}

// current is the 1-based index of the job at the top of the viewport.
func (m pagerModel) current() int {
	return sort.SearchInts(m.starts, m.viewport.YOffset+1)
}

func (m pagerModel) View() string {
	if !m.ready {
		return "Rendering..."
	}
	header := pagerHeaderStyle.Render(fmt.Sprintf("Preview · job %d/%d", max(m.current(), 1), m.jobs))
	status := fmt.Sprintf("%s · %3.f%%    n/p job  ↑/↓ scroll  q quit",
		summary(m.jobs, m.messages), m.viewport.ScrollPercent()*100)
	return header + "\n" + m.viewport.View() + "\n" + pagerStatusStyle.Width(m.width).Render(status)
}

// Page shows the rendered jobs in a scrollable full-screen viewer and returns
// when the user quits.
func Page(jobs []model.Job, maxLen, width int) error {
	p := tea.NewProgram(newPagerModel(jobs, maxLen, width), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run preview pager: %w", err)
	}
	return nil
}
