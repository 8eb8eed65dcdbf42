package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

type modelT struct {
	report *model.VulnerabilityReport
	cursor int
}

func initialModel(r *model.VulnerabilityReport) modelT { return modelT{report: r} }

func (m modelT) Init() tea.Cmd { return nil }

func (m modelT) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.report.Findings)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m modelT) View() string {
	var b strings.Builder
	r := m.report
	fmt.Fprintf(&b, "%s [%s] risk %d (%s)\n", r.ContractName, r.Language, r.RiskScore.Score, r.RiskScore.Level)
	fmt.Fprintf(&b, "critical=%d high=%d medium=%d low=%d\n\n",
		r.Counts.Critical, r.Counts.High, r.Counts.Medium, r.Counts.Low)
	for i, f := range r.Findings {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s [%s] line %d %s\n", marker, f.RuleID, f.Severity, f.Line, f.Title)
	}
	if len(r.Findings) > 0 && m.cursor < len(r.Findings) {
		fmt.Fprintf(&b, "\n%s\n", r.Findings[m.cursor].Description)
	}
	if r.Note != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Note)
	}
	b.WriteString("\nq to quit, j/k to move\n")
	return b.String()
}

// Run launches the interactive report view.
func Run(r *model.VulnerabilityReport) error {
	p := tea.NewProgram(initialModel(r))
	_, err := p.Run()
	return err
}
