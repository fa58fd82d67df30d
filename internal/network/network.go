// Package network aggregates filtered purchases into an age-group star graph.
package network

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/agenet/internal/filter"
	"github.com/verte-zerg/agenet/internal/model"
)

// Empty-result outcomes. Both are recoverable and shown to the user.
var (
	ErrNoMatchingRecords = errors.New("no data available for the selected filters")
	ErrNoValidBuckets    = errors.New("no valid connections for the selected filters")
	ErrNoProduct         = errors.New("no product selected")
)

const (
	centerSize     = 3000
	leafSizeFactor = 200
	centerColor    = "lightblue"
	leafColor      = "orange"
)

// BuildNetwork buckets records by age and builds the star graph centered on
// product. Records are assumed to already share that product.
func BuildNetwork(records []model.Record, product string) (model.PurchaseNetwork, error) {
	counts := make([]int, len(Buckets))
	for _, r := range records {
		if !r.HasAge {
			continue
		}
		idx, ok := bucketIndex(r.Age)
		if !ok {
			continue
		}
		counts[idx]++
	}

	retained := make([]model.BucketCount, 0, len(Buckets))
	for i, b := range Buckets {
		if counts[i] == 0 {
			continue
		}
		retained = append(retained, model.BucketCount{Label: b.Label, Count: counts[i]})
	}
	if len(retained) == 0 {
		return model.PurchaseNetwork{}, ErrNoValidBuckets
	}

	nodes := make([]model.Node, 0, len(retained)+1)
	nodes = append(nodes, model.Node{
		ID:    product,
		Role:  model.RoleProduct,
		Label: product,
		Size:  centerSize,
		Color: centerColor,
	})
	edges := make([]model.Edge, 0, len(retained))
	for _, b := range retained {
		nodes = append(nodes, model.Node{
			ID:    b.Label,
			Role:  model.RoleAgeGroup,
			Label: b.Label,
			Size:  b.Count * leafSizeFactor,
			Color: leafColor,
		})
		edges = append(edges, model.Edge{Source: product, Target: b.Label, Weight: b.Count})
	}

	return model.PurchaseNetwork{
		Center:  product,
		Buckets: retained,
		Nodes:   nodes,
		Edges:   edges,
		Summary: summarize(retained),
	}, nil
}

func summarize(retained []model.BucketCount) model.Summary {
	maxB, minB := retained[0], retained[0]
	for _, b := range retained[1:] {
		// Strict comparisons keep the earliest bucket on ties.
		if b.Count > maxB.Count {
			maxB = b
		}
		if b.Count < minB.Count {
			minB = b
		}
	}
	return model.Summary{
		TotalNodes: 1 + len(retained),
		TotalEdges: len(retained),
		Max:        maxB,
		Min:        minB,
	}
}

// Generate filters records by criteria and builds the network for the
// selected product.
func Generate(records []model.Record, criteria model.FilterCriteria) (model.PurchaseNetwork, error) {
	if strings.TrimSpace(criteria.Product) == "" {
		return model.PurchaseNetwork{}, ErrNoProduct
	}
	matched := filter.FilterRecords(records, criteria)
	if len(matched) == 0 {
		return model.PurchaseNetwork{}, ErrNoMatchingRecords
	}
	net, err := BuildNetwork(matched, criteria.Product)
	if err != nil {
		return model.PurchaseNetwork{}, err
	}
	net.Title = Title(criteria)
	return net, nil
}

// DescribeFilters builds the qualifier appended to a network title, one
// clause per concrete constraint.
func DescribeFilters(category, gender, payment, season model.Constraint) string {
	var b strings.Builder
	if v, ok := category.Value(); ok {
		fmt.Fprintf(&b, " in %s Category", v)
	}
	if v, ok := gender.Value(); ok {
		fmt.Fprintf(&b, " for %ss", v)
	}
	if v, ok := payment.Value(); ok {
		fmt.Fprintf(&b, " using %s Payment Method", v)
	}
	if v, ok := season.Value(); ok {
		fmt.Fprintf(&b, " in %s Season", v)
	}
	return b.String()
}

// Title returns the display title for a query.
func Title(criteria model.FilterCriteria) string {
	return "Network for " + criteria.Product + DescribeFilters(criteria.Category, criteria.Gender, criteria.Payment, criteria.Season)
}

// Outcome maps an empty-result error to a heading and message.
func Outcome(err error) (heading, message string, ok bool) {
	switch {
	case errors.Is(err, ErrNoMatchingRecords):
		return "No Data", "No data available for the selected filters.", true
	case errors.Is(err, ErrNoValidBuckets):
		return "No Data", "No valid connections for the selected filters.", true
	case errors.Is(err, ErrNoProduct):
		return "No Product", "Select a product before generating the network.", true
	default:
		return "", "", false
	}
}
