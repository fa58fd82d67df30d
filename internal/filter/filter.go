// Package filter narrows a purchase dataset by the selected criteria.
package filter

import (
	"sort"

	"github.com/verte-zerg/agenet/internal/model"
)

// Choices holds the sorted values offered by each selector.
type Choices struct {
	Categories []string
	Genders    []string
	Payments   []string
	Seasons    []string
}

// AvailableProducts returns the sorted distinct item names among records
// in the given category. Any matches every record.
func AvailableProducts(records []model.Record, category model.Constraint) []string {
	return distinct(records, func(r model.Record) (string, bool) {
		return r.Item, category.Matches(r.Category)
	})
}

// FilterRecords returns the records satisfying every constraint in criteria,
// in their original order. The input slice is never modified.
func FilterRecords(records []model.Record, criteria model.FilterCriteria) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if !Match(r, criteria) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Match reports whether a single record satisfies criteria.
func Match(r model.Record, criteria model.FilterCriteria) bool {
	return criteria.Category.Matches(r.Category) &&
		criteria.Gender.Matches(string(r.Gender)) &&
		criteria.Payment.Matches(r.PaymentMethod) &&
		criteria.Season.Matches(r.Season) &&
		r.Item == criteria.Product
}

// DistinctCategories returns the sorted distinct categories.
func DistinctCategories(records []model.Record) []string {
	return distinct(records, func(r model.Record) (string, bool) { return r.Category, true })
}

// DistinctPayments returns the sorted distinct payment methods.
func DistinctPayments(records []model.Record) []string {
	return distinct(records, func(r model.Record) (string, bool) { return r.PaymentMethod, true })
}

// DistinctSeasons returns the sorted distinct seasons.
func DistinctSeasons(records []model.Record) []string {
	return distinct(records, func(r model.Record) (string, bool) { return r.Season, true })
}

// ChoicesFor collects selector values from the full dataset.
func ChoicesFor(records []model.Record) Choices {
	genders := make([]string, len(model.Genders))
	for i, g := range model.Genders {
		genders[i] = string(g)
	}
	return Choices{
		Categories: DistinctCategories(records),
		Genders:    genders,
		Payments:   DistinctPayments(records),
		Seasons:    DistinctSeasons(records),
	}
}

func distinct(records []model.Record, pick func(model.Record) (string, bool)) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range records {
		v, ok := pick(r)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
