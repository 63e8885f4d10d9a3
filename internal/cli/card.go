package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/trivision/internal/models"
)

type category struct {
	color     string
	status    string
	directive string
}

var categories = map[models.Classification]category{
	models.WetWaste:       {color: "#10b981", status: "ORGANIC", directive: "COMPOST"},
	models.DryWaste:       {color: "#3b82f6", status: "RECYCLABLE", directive: "RECYCLE BIN"},
	models.BurnableWaste:  {color: "#f97316", status: "COMBUSTIBLE", directive: "INCINERATE"},
	models.InertWaste:     {color: "#78716c", status: "INERT / C&D", directive: "LANDFILL / REUSE"},
	models.HazardousWaste: {color: "#ef4444", status: "TOXIC / HAZARDOUS", directive: "SPECIAL DISPOSAL"},
	models.BulkyWaste:     {color: "#6366f1", status: "BULKY / LARGE", directive: "SCHEDULE PICKUP"},
	models.NotWaste:       {color: "#8b5cf6", status: "NON-WASTE", directive: "PRESERVE"},
}

var unknownCategory = category{color: "#737373", status: "UNKNOWN", directive: "MANUAL CHECK"}

func categoryOf(c models.Classification) category {
	if cat, ok := categories[c]; ok {
		return cat
	}
	return unknownCategory
}

const (
	cardWidth = 52
	barWidth  = 20
)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#525252")).
	Padding(1, 2).
	Width(cardWidth)

var (
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373"))
	labelStyle = lipgloss.NewStyle().Bold(true)
)

func badge(c models.Classification) string {
	return strings.Replace(string(c), "_", " ", 1)
}

func percent(confidence float64) int {
	return int(math.Round(confidence * 100))
}

func confidenceBar(confidence float64, accent lipgloss.Style) string {
	filled := int(math.Round(confidence * barWidth))
	filled = max(0, min(barWidth, filled))
	return accent.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

// RenderCard draws a verdict as a bordered result card: category badge,
// confidence, label, reasoning and the disposal directive.
func RenderCard(v models.Verdict) string {
	cat := categoryOf(v.Classification)
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.color))
	inner := cardWidth - 4

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		mutedStyle.Width(inner-lipgloss.Width(badge(v.Classification))).Render("ANALYSIS PROTOCOL v3.0"),
		accent.Bold(true).Render(badge(v.Classification)),
	)

	prob := fmt.Sprintf("%s %3d%% %s",
		confidenceBar(v.Confidence, accent),
		percent(v.Confidence),
		mutedStyle.Render("PROBABILITY"))

	footer := lipgloss.JoinVertical(lipgloss.Left,
		footerLine(mutedStyle.Render("STATUS"), accent.Bold(true).Render(cat.status)),
		footerLine(mutedStyle.Render("DIRECTIVE"), cat.directive),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		prob,
		"",
		labelStyle.Render(v.Label),
		lipgloss.NewStyle().Width(inner).Render(v.Reasoning),
		"",
		footer,
	)
	return cardStyle.Render(body)
}

const footerLabelWidth = 10

func footerLine(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(footerLabelWidth).Render(label),
		value,
	)
}

// classificationCell is the colored category name used in list views.
func classificationCell(c models.Classification) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(categoryOf(c).color)).
		Render(c.Title())
}
