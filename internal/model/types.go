// Package model defines shared data structures.
package model

import "strings"

// AllLabel is the selector label meaning "do not constrain this dimension".
const AllLabel = "All"

// Gender is the customer gender recorded on a purchase.
type Gender string

// Known genders, in selector order.
const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Genders lists the valid gender values.
var Genders = []Gender{GenderMale, GenderFemale}

// ParseGender validates a raw gender value.
func ParseGender(raw string) (Gender, bool) {
	switch Gender(strings.TrimSpace(raw)) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	default:
		return "", false
	}
}

// Record is one purchase transaction.
type Record struct {
	CustomerID    string
	Category      string
	Item          string
	Age           int
	HasAge        bool
	Gender        Gender
	PaymentMethod string
	Season        string
	Amount        float64
}

// Constraint is an optional equality constraint on one dimension.
// The zero value matches everything.
type Constraint struct {
	value string
	set   bool
}

// Any returns a constraint that matches every value.
func Any() Constraint {
	return Constraint{}
}

// Is returns a constraint that matches exactly value.
func Is(value string) Constraint {
	return Constraint{value: value, set: true}
}

// ParseConstraint converts a flag or config value into a constraint.
// An empty value or exactly the "All" label yields Any.
func ParseConstraint(raw string) Constraint {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == AllLabel {
		return Any()
	}
	return Is(raw)
}

// Value returns the constrained value and whether one is set.
func (c Constraint) Value() (string, bool) {
	return c.value, c.set
}

// IsAny reports whether the constraint passes every value.
func (c Constraint) IsAny() bool {
	return !c.set
}

// Matches reports whether v satisfies the constraint (case-sensitive).
func (c Constraint) Matches(v string) bool {
	return !c.set || c.value == v
}

// String renders the constraint as a selector label.
func (c Constraint) String() string {
	if !c.set {
		return AllLabel
	}
	return c.value
}

// FilterCriteria selects the records fed to the aggregator.
// Product is always concrete.
type FilterCriteria struct {
	Category Constraint
	Product  string
	Gender   Constraint
	Payment  Constraint
	Season   Constraint
}

// AgeBucket is one of the fixed age ranges used for aggregation.
// Min is inclusive; Max is exclusive except for the last bucket.
type AgeBucket struct {
	Label string
	Min   int
	Max   int
}

// BucketCount pairs a bucket label with its purchase count.
type BucketCount struct {
	Label string
	Count int
}

// Node roles in a purchase network.
const (
	RoleProduct  = "product"
	RoleAgeGroup = "age-group"
)

// Node is a vertex of the purchase network.
type Node struct {
	ID    string
	Role  string
	Label string
	Size  int
	Color string
}

// Edge connects the product to an age group.
type Edge struct {
	Source string
	Target string
	Weight int
}

// Summary holds the derived facts shown next to the graph.
type Summary struct {
	TotalNodes int
	TotalEdges int
	Max        BucketCount
	Min        BucketCount
}

// PurchaseNetwork is the star-shaped aggregation result for one product.
type PurchaseNetwork struct {
	Title   string
	Center  string
	Buckets []BucketCount
	Nodes   []Node
	Edges   []Edge
	Summary Summary
}
