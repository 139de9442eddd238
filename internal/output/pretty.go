package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/danielfard/PruebaTecnica/internal/model"
)

func RenderPretty(report model.Report) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render("dns query summary")
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	lines := []string{title, ""}
	lines = append(lines, rowStyle.Render(fmt.Sprintf("Total Records: %d", report.TotalRecords)), "")
	lines = append(lines, renderRank(headerStyle, rowStyle, "Client IPs Rank", "Client IP", 20, report.ClientIPRank)...)
	lines = append(lines, "")
	lines = append(lines, renderRank(headerStyle, rowStyle, "Host Rank", "Host", 30, report.HostRank)...)
	lines = append(lines, "")
	lines = append(lines, renderRank(headerStyle, rowStyle, "Query Type Rank", "Type", 10, report.QueryTypeRank)...)

	return strings.Join(lines, "\n")
}

func renderRank(headerStyle, rowStyle lipgloss.Style, title, keyLabel string, keyWidth int, entries []model.RankEntry) []string {
	lines := []string{
		headerStyle.Render(title),
		rowStyle.Render(strings.Repeat("-", 40)),
		headerStyle.Render(fmt.Sprintf("%-*s %-10s %s", keyWidth, keyLabel, "Count", "Percentage")),
	}
	for _, entry := range entries {
		lines = append(lines, rowStyle.Render(
			fmt.Sprintf("%-*s %-10d %.2f%%", keyWidth, entry.Key, entry.Count, entry.Percentage),
		))
	}
	return lines
}
