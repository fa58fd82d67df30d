package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/agenet/internal/model"
)

// SummaryText formats the summary facts shown beside the graph.
func SummaryText(s model.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total Nodes: %d\n", s.TotalNodes)
	fmt.Fprintf(&b, "Total Edges: %d\n\n", s.TotalEdges)
	fmt.Fprintf(&b, "Age Group with Most Purchases: %s (%d purchases)\n", s.Max.Label, s.Max.Count)
	fmt.Fprintf(&b, "Age Group with Least Purchases: %s (%d purchases)\n", s.Min.Label, s.Min.Count)
	return b.String()
}

// BucketTable returns aligned rows of age group, purchases and share.
func BucketTable(net model.PurchaseNetwork) []string {
	total := 0
	for _, b := range net.Buckets {
		total += b.Count
	}
	rows := make([][]string, 0, len(net.Buckets))
	for _, b := range net.Buckets {
		share := 0.0
		if total > 0 {
			share = float64(b.Count) / float64(total) * 100
		}
		rows = append(rows, []string{b.Label, fmt.Sprintf("%d", b.Count), fmt.Sprintf("%.1f%%", share)})
	}
	return formatTable([]string{"Age Group", "Purchases", "Share"}, rows, map[int]bool{1: true, 2: true})
}

// WriteReport prints the title, star diagram, bucket table and summary.
func WriteReport(w io.Writer, net model.PurchaseNetwork, width int, useColor bool) error {
	if _, err := fmt.Fprintln(w, net.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Star(net, width, useColor)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	for _, line := range BucketTable(net) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, SummaryText(net.Summary))
	return err
}
