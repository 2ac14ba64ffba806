package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/sportspulse/internal/domain"
)

// Confidence bands used for colouring scores.
const (
	HighConfidence   = 0.7
	MediumConfidence = 0.5
)

var (
	colorHigh   = lipgloss.Color("#A6E3A1")
	colorMedium = lipgloss.Color("#F9E2AF")
	colorLow    = lipgloss.Color("#F38BA8")
	colorMuted  = lipgloss.Color("#6C7086")
	colorAccent = lipgloss.Color("#06B6D4")
)

type styles struct {
	Answer  lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Source  lipgloss.Style
	Warning lipgloss.Style
	High    lipgloss.Style
	Medium  lipgloss.Style
	Low     lipgloss.Style
}

func newStyles() styles {
	return styles{
		Answer:  lipgloss.NewStyle().Bold(true),
		Label:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
		Source:  lipgloss.NewStyle().Foreground(colorAccent),
		Warning: lipgloss.NewStyle().Foreground(colorMedium),
		High:    lipgloss.NewStyle().Bold(true).Foreground(colorHigh),
		Medium:  lipgloss.NewStyle().Bold(true).Foreground(colorMedium),
		Low:     lipgloss.NewStyle().Bold(true).Foreground(colorLow),
	}
}

// ConfidenceBand names the colour band of a score: green above 0.7, yellow above 0.5, red
// otherwise.
func ConfidenceBand(score float64) string {
	switch {
	case score > HighConfidence:
		return "high"
	case score > MediumConfidence:
		return "medium"
	default:
		return "low"
	}
}

func (s styles) confidence(score float64) lipgloss.Style {
	switch ConfidenceBand(score) {
	case "high":
		return s.High
	case "medium":
		return s.Medium
	default:
		return s.Low
	}
}

func sourceLabel(src string) string {
	switch domain.Source(src) {
	case domain.SourceWebSearch:
		return "web search"
	case domain.SourceKnowledgeBase:
		return "knowledge base"
	default:
		return src
	}
}
