package filter

import (
	"reflect"
	"sort"
	"testing"

	"github.com/verte-zerg/agenet/internal/model"
)

func sampleRecords() []model.Record {
	return []model.Record{
		{Category: "Clothing", Item: "Blouse", Age: 55, HasAge: true, Gender: model.GenderMale, PaymentMethod: "Venmo", Season: "Winter"},
		{Category: "Clothing", Item: "Sweater", Age: 19, HasAge: true, Gender: model.GenderMale, PaymentMethod: "Cash", Season: "Winter"},
		{Category: "Clothing", Item: "Jeans", Age: 50, HasAge: true, Gender: model.GenderFemale, PaymentMethod: "Credit Card", Season: "Spring"},
		{Category: "Footwear", Item: "Sandals", Age: 21, HasAge: true, Gender: model.GenderMale, PaymentMethod: "PayPal", Season: "Spring"},
		{Category: "Clothing", Item: "Blouse", Age: 45, HasAge: true, Gender: model.GenderFemale, PaymentMethod: "Cash", Season: "Summer"},
		{Category: "Accessories", Item: "Blouse", Age: 30, HasAge: true, Gender: model.GenderMale, PaymentMethod: "Cash", Season: "Winter"},
		{Category: "Clothing", Item: "Blouse", Age: 63, HasAge: true, Gender: model.GenderMale, PaymentMethod: "Cash", Season: "Winter"},
	}
}

func TestAvailableProductsAll(t *testing.T) {
	got := AvailableProducts(sampleRecords(), model.Any())
	want := []string{"Blouse", "Jeans", "Sandals", "Sweater"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAvailableProductsByCategory(t *testing.T) {
	got := AvailableProducts(sampleRecords(), model.Is("Clothing"))
	want := []string{"Blouse", "Jeans", "Sweater"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !sort.StringsAreSorted(got) {
		t.Fatalf("expected sorted output: %v", got)
	}
}

func TestAvailableProductsUnknownCategory(t *testing.T) {
	got := AvailableProducts(sampleRecords(), model.Is("Outerwear"))
	if len(got) != 0 {
		t.Fatalf("expected no products, got %v", got)
	}
}

func TestFilterRecordsAllConstraints(t *testing.T) {
	records := sampleRecords()
	criteria := model.FilterCriteria{
		Category: model.Is("Clothing"),
		Product:  "Blouse",
		Gender:   model.Is("Male"),
		Payment:  model.Is("Cash"),
		Season:   model.Is("Winter"),
	}
	got := FilterRecords(records, criteria)
	if len(got) != 1 || got[0].Age != 63 {
		t.Fatalf("expected single record aged 63, got %+v", got)
	}
}

func TestFilterRecordsAnyPassesThrough(t *testing.T) {
	records := sampleRecords()
	got := FilterRecords(records, model.FilterCriteria{Product: "Blouse"})
	ages := make([]int, len(got))
	for i, r := range got {
		ages[i] = r.Age
	}
	want := []int{55, 45, 30, 63}
	if !reflect.DeepEqual(ages, want) {
		t.Fatalf("expected original order %v, got %v", want, ages)
	}
}

func TestFilterRecordsSubsetAndExhaustive(t *testing.T) {
	records := sampleRecords()
	criteria := model.FilterCriteria{Category: model.Is("Clothing"), Product: "Blouse", Season: model.Is("Winter")}
	got := FilterRecords(records, criteria)
	kept := 0
	for _, r := range records {
		if Match(r, criteria) {
			kept++
			continue
		}
		for _, g := range got {
			if g == r {
				t.Fatalf("dropped record %+v present in output", r)
			}
		}
	}
	if kept != len(got) {
		t.Fatalf("expected %d kept records, got %d", kept, len(got))
	}
	for _, g := range got {
		if g.Category != "Clothing" || g.Item != "Blouse" || g.Season != "Winter" {
			t.Fatalf("record violates criteria: %+v", g)
		}
	}
}

func TestFilterRecordsIdempotentAndPure(t *testing.T) {
	records := sampleRecords()
	before := append([]model.Record(nil), records...)
	criteria := model.FilterCriteria{Product: "Blouse", Gender: model.Is("Male")}
	once := FilterRecords(records, criteria)
	twice := FilterRecords(once, criteria)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected idempotent filter: %+v vs %+v", once, twice)
	}
	if !reflect.DeepEqual(records, before) {
		t.Fatalf("input records were modified")
	}
	if got := AvailableProducts(records, model.Any()); len(got) != 4 {
		t.Fatalf("expected product list from unfiltered set, got %v", got)
	}
}

func TestFilterRecordsCaseSensitive(t *testing.T) {
	got := FilterRecords(sampleRecords(), model.FilterCriteria{Product: "blouse"})
	if len(got) != 0 {
		t.Fatalf("expected case-sensitive product match, got %+v", got)
	}
}

func TestChoicesFor(t *testing.T) {
	c := ChoicesFor(sampleRecords())
	if !reflect.DeepEqual(c.Categories, []string{"Accessories", "Clothing", "Footwear"}) {
		t.Fatalf("unexpected categories: %v", c.Categories)
	}
	if !reflect.DeepEqual(c.Genders, []string{"Male", "Female"}) {
		t.Fatalf("unexpected genders: %v", c.Genders)
	}
	if !reflect.DeepEqual(c.Payments, []string{"Cash", "Credit Card", "PayPal", "Venmo"}) {
		t.Fatalf("unexpected payments: %v", c.Payments)
	}
	if !reflect.DeepEqual(c.Seasons, []string{"Spring", "Summer", "Winter"}) {
		t.Fatalf("unexpected seasons: %v", c.Seasons)
	}
}
