package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/agenet/internal/model"
)

func testRecords() []model.Record {
	rec := func(category, item string, age int, gender model.Gender, payment, season string) model.Record {
		return model.Record{Category: category, Item: item, Age: age, HasAge: true, Gender: gender, PaymentMethod: payment, Season: season}
	}
	return []model.Record{
		rec("Clothing", "Blouse", 20, model.GenderMale, "Cash", "Winter"),
		rec("Clothing", "Blouse", 20, model.GenderFemale, "Cash", "Winter"),
		rec("Clothing", "Blouse", 30, model.GenderMale, "Venmo", "Summer"),
		rec("Clothing", "Jeans", 45, model.GenderMale, "Cash", "Winter"),
		rec("Footwear", "Boots", 99, model.GenderFemale, "PayPal", "Fall"),
		rec("Footwear", "Sandals", 64, model.GenderMale, "PayPal", "Summer"),
	}
}

func newTestModel(t *testing.T, initial Initial) *Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewModel(testRecords(), initial, logger)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func press(m *Model, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestNewModelProductChoices(t *testing.T) {
	m := newTestModel(t, Initial{})
	got := strings.Join(m.selectors[selProduct].values, ",")
	if got != "Blouse,Boots,Jeans,Sandals" {
		t.Fatalf("unexpected products: %s", got)
	}
	if c := m.Criteria(); !c.Category.IsAny() || c.Product != "Blouse" {
		t.Fatalf("unexpected initial criteria: %+v", c)
	}
}

func TestCategoryChangeRefreshesProducts(t *testing.T) {
	m := newTestModel(t, Initial{})
	// Categories: All, Clothing, Footwear. Move to Footwear.
	press(m, keyRight, keyRight)
	if v := m.selectors[selCategory].value(); v != "Footwear" {
		t.Fatalf("expected Footwear, got %s", v)
	}
	got := strings.Join(m.selectors[selProduct].values, ",")
	if got != "Boots,Sandals" {
		t.Fatalf("unexpected products after category change: %s", got)
	}
	// Back to All: the list is derived from the full dataset again.
	press(m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	if n := len(m.selectors[selProduct].values); n != 4 {
		t.Fatalf("expected 4 products for All, got %d", n)
	}
}

func TestGenerateRendersNetwork(t *testing.T) {
	m := newTestModel(t, Initial{Category: "Clothing", Product: "Blouse"})
	press(m, keyEnter)
	if m.network == nil {
		t.Fatalf("expected network, notice=%q err=%q", m.notice, m.errMsg)
	}
	view := m.View()
	for _, want := range []string{"Network for Blouse in Clothing Category", "Total Nodes: 3", "Age Group with Most Purchases: 18-24 (2 purchases)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	press(m, keyTab)
	if !strings.Contains(m.View(), "25-34") {
		t.Fatalf("expected age table to list buckets:\n%s", m.View())
	}
}

func TestGenerateWithFilters(t *testing.T) {
	m := newTestModel(t, Initial{Product: "Blouse", Gender: "Male", Season: "Winter"})
	press(m, keyEnter)
	if m.network == nil {
		t.Fatalf("expected network, notice=%q", m.notice)
	}
	if m.network.Title != "Network for Blouse for Males in Winter Season" {
		t.Fatalf("unexpected title: %q", m.network.Title)
	}
	if m.network.Summary.TotalEdges != 1 || len(m.network.Buckets) != 1 || m.network.Buckets[0] != (model.BucketCount{Label: "18-24", Count: 1}) {
		t.Fatalf("unexpected network: %+v", m.network.Buckets)
	}
}

func TestGenerateNoMatchingRecords(t *testing.T) {
	m := newTestModel(t, Initial{Product: "Jeans", Season: "Summer"})
	press(m, keyEnter)
	if m.network != nil {
		t.Fatalf("expected no network")
	}
	if m.notice != "No Data: No data available for the selected filters." {
		t.Fatalf("unexpected notice: %q", m.notice)
	}
	if !strings.Contains(m.View(), "No data available") {
		t.Fatalf("expected notice in view")
	}
}

func TestGenerateNoValidBuckets(t *testing.T) {
	m := newTestModel(t, Initial{Product: "Boots"})
	press(m, keyEnter)
	if m.notice != "No Data: No valid connections for the selected filters." {
		t.Fatalf("unexpected notice: %q", m.notice)
	}
}

func TestFocusWrapsAround(t *testing.T) {
	m := newTestModel(t, Initial{})
	press(m, keyDown, keyDown, keyDown, keyDown, keyDown)
	if m.focus != selCategory {
		t.Fatalf("expected focus to wrap to first selector, got %d", m.focus)
	}
	press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.focus != selSeason {
		t.Fatalf("expected focus to wrap to last selector, got %d", m.focus)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Initial{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestLowercaseAllValueIsExactMatch(t *testing.T) {
	records := []model.Record{
		{Category: "Clothing", Item: "Blouse", Age: 20, HasAge: true, Gender: model.GenderMale, PaymentMethod: "all", Season: "Winter"},
		{Category: "Clothing", Item: "Blouse", Age: 50, HasAge: true, Gender: model.GenderMale, PaymentMethod: "Cash", Season: "Winter"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewModel(records, Initial{Product: "Blouse", Payment: "all"}, logger)

	if v, ok := m.Criteria().Payment.Value(); !ok || v != "all" {
		t.Fatalf("expected exact payment constraint \"all\", got %v", m.Criteria().Payment)
	}
	press(m, keyEnter)
	if m.network == nil {
		t.Fatalf("expected network, notice=%q", m.notice)
	}
	if len(m.network.Buckets) != 1 || m.network.Buckets[0].Label != "18-24" {
		t.Fatalf("expected only the \"all\" payment row, got %+v", m.network.Buckets)
	}
}
