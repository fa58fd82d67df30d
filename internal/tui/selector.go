package tui

import "github.com/verte-zerg/agenet/internal/model"

// selector is a cycling choice list for one filter dimension.
type selector struct {
	label   string
	values  []string
	index   int
	withAll bool
}

func newSelector(label string, values []string, withAll bool) selector {
	s := selector{label: label, withAll: withAll}
	if withAll {
		s.values = append(s.values, model.AllLabel)
	}
	s.values = append(s.values, values...)
	return s
}

func (s *selector) value() string {
	if len(s.values) == 0 {
		return ""
	}
	return s.values[s.index]
}

// constraint maps the leading "All" entry to Any and every other entry to
// an exact match, so a data value spelled "All" still filters.
func (s *selector) constraint() model.Constraint {
	if s.withAll && s.index == 0 {
		return model.Any()
	}
	return model.Is(s.value())
}

func (s *selector) move(delta int) bool {
	count := len(s.values)
	if count <= 1 {
		return false
	}
	next := (s.index + delta) % count
	if next < 0 {
		next += count
	}
	changed := next != s.index
	s.index = next
	return changed
}

// selectValue focuses v if present and reports whether it was found.
func (s *selector) selectValue(v string) bool {
	for i, candidate := range s.values {
		if candidate == v {
			s.index = i
			return true
		}
	}
	return false
}

// setValues replaces the choices, keeping the current value when possible.
func (s *selector) setValues(values []string) {
	current := s.value()
	s.values = values
	s.index = 0
	s.selectValue(current)
}
