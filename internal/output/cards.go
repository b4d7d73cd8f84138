package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/davetashner/tripdash/internal/insight"
)

const (
	kpiCardWidth     = 22
	insightCardWidth = 36
)

func cardStyle(width int) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(width)
	if !color.NoColor {
		s = s.BorderForeground(lipgloss.Color("8"))
	}
	return s
}

func accent() lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	if !color.NoColor {
		s = s.Foreground(lipgloss.Color("12"))
	}
	return s
}

// renderKPICards lays the KPI cards out side by side.
func renderKPICards(kpis []KPI) string {
	cards := make([]string, len(kpis))
	for i, k := range kpis {
		body := lipgloss.JoinVertical(lipgloss.Left, k.Label, accent().Render(k.Value))
		cards[i] = cardStyle(kpiCardWidth).Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// renderInsightCards lays the insight cards out side by side. Card text
// wraps within the card width.
func renderInsightCards(recs []insight.Record) string {
	cards := make([]string, len(recs))
	for i, r := range recs {
		body := lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(r.Title),
			accent().Render(r.Stat),
			r.Detail,
		)
		cards[i] = cardStyle(insightCardWidth).Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}
