package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ldi/planner/pkg/models"
)

var (
	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	panelMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true).
				Padding(0, 1)
)

// DayPanel renders the tasks covering a single day in a scrollable
// viewport. It backs the tooltip/inspection pane next to the grid.
type DayPanel struct {
	viewport viewport.Model
	date     time.Time
	tasks    []*models.Task
	width    int
	height   int
}

func NewDayPanel(width, height int) *DayPanel {
	p := &DayPanel{
		viewport: viewport.New(width, height),
		width:    width,
		height:   height,
	}
	p.updateContent()
	return p
}

func (p *DayPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = width
	p.viewport.Height = height
	p.updateContent()
}

// SetDay replaces the panel contents with the tasks covering the date.
func (p *DayPanel) SetDay(date time.Time, tasks []*models.Task) {
	p.date = date
	p.tasks = tasks
	p.viewport.GotoTop()
	p.updateContent()
}

func (p *DayPanel) updateContent() {
	if len(p.tasks) == 0 {
		p.viewport.SetContent(placeholderStyle.Render("No tasks on this day"))
		return
	}

	var b strings.Builder
	for i, t := range p.tasks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ChipStyle(t.Category).Render(" " + t.Name + " "))
		b.WriteString("\n")
		b.WriteString(panelMetaStyle.Render(fmt.Sprintf("  %s · %s – %s (%dd)",
			t.Category.DisplayName(),
			t.StartDate.Format("Jan 2"),
			t.EndDate.Format("Jan 2"),
			t.Days(),
		)))
		b.WriteString("\n")
	}
	p.viewport.SetContent(b.String())
}

// Update forwards scroll events to the viewport.
func (p *DayPanel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *DayPanel) View() string {
	title := panelTitleStyle.Render(p.date.Format("Mon Jan 2"))
	body := p.viewport.View()
	return panelBorderStyle.Width(p.width).Render(title + "\n" + body)
}
