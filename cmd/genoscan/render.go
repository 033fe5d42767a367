package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/agenthands/genoscan/internal/core/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(12)

	dangerStyles = map[model.DangerLevel]lipgloss.Style{
		model.DangerLow:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		model.DangerMedium: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB454")),
		model.DangerHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87")),
	}
)

// renderResult formats an analysis for the terminal. The report is treated
// as markdown since LLMs tend to answer in it.
func renderResult(r model.AnalysisResult) (string, error) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Genomic analysis: "+r.GenomicID) + "\n\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}

	if r.Source == model.SourceFallback {
		row("Source", "LLM inference (registry unavailable)")
		row("Inferred", r.Response)
	} else {
		row("Source", "NCBI registry")
		row("Organism", r.Organism)
	}
	row("Pathogen", fmt.Sprintf("%t", r.IsPathogen))
	row("Danger", dangerStyles[r.DangerLevel].Render(r.DangerLevel.String()))

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	report, err := renderer.Render(r.Report)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	b.WriteString(report)
	return b.String(), nil
}
