package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/seqdraw/pkg/diagram"
)

var (
	stepCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stepNormalStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	stepDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	stepHeaderStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// StepModel - interactive message browser
// =============================================================================

// StepModel is the bubbletea model behind `seqdraw inspect`. It keeps one
// message current, the terminal counterpart of the step indicator drawn by
// the SVG renderer.
type StepModel struct {
	Diagram *diagram.Diagram
	Cursor  int
	Height  int
	Offset  int
}

// NewStepModel creates a model positioned on the message with the given
// sequence index, or on the first message when index is out of range.
func NewStepModel(d *diagram.Diagram, index int) StepModel {
	m := StepModel{Diagram: d, Height: 15}
	for i, msg := range d.Messages {
		if msg.Index == index {
			m.Cursor = i
		}
	}
	m.scroll()
	return m
}

func (m StepModel) Init() tea.Cmd {
	return nil
}

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "down", "l", "j", "n", " ":
			if m.Cursor < len(m.Diagram.Messages)-1 {
				m.Cursor++
			}
		case "left", "up", "h", "k", "p":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Diagram.Messages)-1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	m.scroll()
	return m, nil
}

func (m *StepModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Current returns the current message, false for a diagram without messages.
func (m StepModel) Current() (diagram.Message, bool) {
	if len(m.Diagram.Messages) == 0 {
		return diagram.Message{}, false
	}
	return m.Diagram.Messages[m.Cursor], true
}

func (m StepModel) View() string {
	var b strings.Builder

	title := m.Diagram.Title
	if title == "" {
		title = diagram.DefaultTitle
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(stepDimStyle.Render("←/→ step  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if cur, ok := m.Current(); ok {
		b.WriteString(stepIndicator(cur, m.Diagram))
	} else {
		b.WriteString(stepDimStyle.Render("no messages"))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Diagram.Messages))
	b.WriteString(m.table(m.Offset, end).Render())
	b.WriteString("\n")
	b.WriteString(stepDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Diagram.Messages)), len(m.Diagram.Messages))))
	return b.String()
}

func (m StepModel) table(start, end int) *table.Table {
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		msg := m.Diagram.Messages[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, msg.StepLabel(), label(m.Diagram, msg.From), arrowToken(msg), label(m.Diagram, msg.To), msg.Text})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Step", "From", "", "To", "Message").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return stepHeaderStyle
			}
			idx := start + row
			if idx >= len(m.Diagram.Messages) {
				return lipgloss.NewStyle()
			}
			msg := m.Diagram.Messages[idx]
			base := stepNormalStyle
			if idx == m.Cursor {
				base = stepCurrentStyle
			}
			if col == 2 {
				if p, ok := m.Diagram.Participant(msg.From); ok && p.Color != "" {
					return base.Foreground(lipgloss.Color(p.Color))
				}
			}
			return base
		})
}

// stepIndicator renders "● 3  Client → API  login" with the marker in the
// sender's color.
func stepIndicator(msg diagram.Message, d *diagram.Diagram) string {
	marker := lipgloss.NewStyle().Bold(true)
	if p, ok := d.Participant(msg.From); ok && p.Color != "" {
		marker = marker.Foreground(lipgloss.Color(p.Color))
	}
	return fmt.Sprintf("%s %s  %s %s %s  %s",
		marker.Render("●"),
		marker.Render(msg.StepLabel()),
		StyleValue.Render(label(d, msg.From)),
		stepDimStyle.Render(iconArrow),
		StyleValue.Render(label(d, msg.To)),
		msg.Text)
}

// label returns the display label of a participant, falling back to its id.
func label(d *diagram.Diagram, id string) string {
	if p, ok := d.Participant(id); ok && p.Label != "" {
		return p.Label
	}
	return id
}

func arrowToken(msg diagram.Message) string {
	if msg.Arrow != "" {
		return msg.Arrow
	}
	if msg.Style == diagram.ArrowDashed {
		return "-->>"
	}
	return "->>"
}
