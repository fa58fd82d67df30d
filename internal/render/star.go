// Package render turns a purchase network into text and images.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/agenet/internal/model"
)

const (
	minStarWidth   = 30
	maxCenterWidth = 24
	minBarWidth    = 1
)

var (
	centerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ADD8E6")).Bold(true)
	leafStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	weightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	edgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// Star renders the network as a text star: the product on the middle row and
// one edge per age group, with bar length proportional to the edge weight.
func Star(net model.PurchaseNetwork, width int, useColor bool) string {
	if len(net.Edges) == 0 {
		return ""
	}
	if width < minStarWidth {
		width = minStarWidth
	}

	center := "[ " + runewidth.Truncate(net.Center, maxCenterWidth, "...") + " ]"
	centerWidth := runewidth.StringWidth(center)

	maxWeight := 0
	labelWidth := 0
	for _, e := range net.Edges {
		if e.Weight > maxWeight {
			maxWeight = e.Weight
		}
		if w := runewidth.StringWidth(leafLabel(e)); w > labelWidth {
			labelWidth = w
		}
	}
	// center + space + connector + space + bar + space + label
	barSpace := width - centerWidth - labelWidth - 4
	if barSpace < minBarWidth {
		barSpace = minBarWidth
	}

	paint := func(s lipgloss.Style, text string) string {
		if !useColor {
			return text
		}
		return s.Render(text)
	}

	n := len(net.Edges)
	mid := (n - 1) / 2
	lines := make([]string, 0, n)
	for i, e := range net.Edges {
		prefix := strings.Repeat(" ", centerWidth)
		if i == mid {
			prefix = paint(centerStyle, center)
		}
		bar := strings.Repeat("━", scaleBar(e.Weight, maxWeight, barSpace))
		line := prefix + " " +
			paint(edgeStyle, connector(i, mid, n)+" "+bar) + " " +
			paint(leafStyle, e.Target) + " " +
			paint(weightStyle, fmt.Sprintf("(%d)", e.Weight))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func leafLabel(e model.Edge) string {
	return fmt.Sprintf("%s (%d)", e.Target, e.Weight)
}

func connector(row, mid, n int) string {
	switch {
	case n == 1:
		return "─"
	case row == mid && row == 0:
		return "┬"
	case row == mid:
		return "┼"
	case row == 0:
		return "┌"
	case row == n-1:
		return "└"
	default:
		return "├"
	}
}

func scaleBar(weight, maxWeight, space int) int {
	if maxWeight <= 0 || space <= minBarWidth {
		return minBarWidth
	}
	n := weight * space / maxWeight
	if n < minBarWidth {
		n = minBarWidth
	}
	return n
}
