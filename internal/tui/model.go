// Package tui provides the Bubble Tea network viewer.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/agenet/internal/filter"
	"github.com/verte-zerg/agenet/internal/model"
	"github.com/verte-zerg/agenet/internal/network"
	"github.com/verte-zerg/agenet/internal/render"
)

const (
	tabNetwork = iota
	tabAgeGroups
)

const (
	selCategory = iota
	selProduct
	selGender
	selPayment
	selSeason
)

const appTitle = "Customer Age Group Network Viewer"

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	focusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#E3B341"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	netTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMuteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Initial holds the selector values to start from. Empty means the first choice.
type Initial struct {
	Category string
	Product  string
	Gender   string
	Payment  string
	Season   string
}

// Model implements the Bubble Tea network viewer.
type Model struct {
	records []model.Record
	logger  *slog.Logger

	selectors []selector
	focus     int

	tabs      []string
	activeTab int
	viewport  viewport.Model
	ageTable  table.Model

	network *model.PurchaseNetwork
	notice  string
	errMsg  string

	width  int
	height int
}

// NewModel constructs the viewer over an already loaded dataset.
func NewModel(records []model.Record, initial Initial, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	choices := filter.ChoicesFor(records)
	m := &Model{
		records: records,
		logger:  logger,
		tabs:    []string{"Network", "Age Groups"},
		selectors: []selector{
			newSelector("Product Category", choices.Categories, true),
			newSelector("Product Name", nil, false),
			newSelector("Gender", choices.Genders, true),
			newSelector("Payment Method", choices.Payments, true),
			newSelector("Season", choices.Seasons, true),
		},
		viewport: viewport.New(0, 0),
		ageTable: newAgeTable(),
	}
	m.applyInitial(selCategory, initial.Category)
	m.refreshProducts()
	m.applyInitial(selProduct, initial.Product)
	m.applyInitial(selGender, initial.Gender)
	m.applyInitial(selPayment, initial.Payment)
	m.applyInitial(selSeason, initial.Season)
	m.renderContent()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderContent()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + len(m.tabs) - 1) % len(m.tabs)
			return m, nil
		case "up", "k":
			m.moveFocus(-1)
			return m, nil
		case "down", "j":
			m.moveFocus(1)
			return m, nil
		case "left", "h":
			m.cycle(-1)
			return m, nil
		case "right", "l":
			m.cycle(1)
			return m, nil
		case "enter", "g":
			m.generate()
			return m, nil
		default:
			if m.activeTab == tabAgeGroups {
				var cmd tea.Cmd
				m.ageTable, cmd = m.ageTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Criteria returns the filter criteria for the current selections.
func (m *Model) Criteria() model.FilterCriteria {
	return model.FilterCriteria{
		Category: m.selectors[selCategory].constraint(),
		Product:  m.selectors[selProduct].value(),
		Gender:   m.selectors[selGender].constraint(),
		Payment:  m.selectors[selPayment].constraint(),
		Season:   m.selectors[selSeason].constraint(),
	}
}

func (m *Model) applyInitial(idx int, value string) {
	if value == "" {
		return
	}
	if !m.selectors[idx].selectValue(value) {
		m.logger.Warn("initial selection not available", "field", m.selectors[idx].label, "value", value)
	}
}

func (m *Model) moveFocus(delta int) {
	count := len(m.selectors)
	m.focus = (m.focus + delta + count) % count
}

func (m *Model) cycle(delta int) {
	if !m.selectors[m.focus].move(delta) {
		return
	}
	if m.focus == selCategory {
		m.refreshProducts()
	}
}

// refreshProducts derives the product choices from the full dataset.
func (m *Model) refreshProducts() {
	category := m.selectors[selCategory].constraint()
	m.selectors[selProduct].setValues(filter.AvailableProducts(m.records, category))
}

func (m *Model) generate() {
	criteria := m.Criteria()
	net, err := network.Generate(m.records, criteria)
	if err != nil {
		m.network = nil
		if heading, message, ok := network.Outcome(err); ok {
			m.notice = heading + ": " + message
			m.errMsg = ""
			m.logger.Info("empty network", "title", network.Title(criteria), "reason", err)
		} else {
			m.notice = ""
			m.errMsg = err.Error()
			m.logger.Error("failed to generate network", "error", err)
		}
		m.updateLayout()
		m.renderContent()
		return
	}
	m.network = &net
	m.notice = ""
	m.errMsg = ""
	m.logger.Debug("network generated", "title", net.Title, "edges", len(net.Edges))
	m.updateLayout()
	m.renderContent()
}

func (m *Model) renderContent() {
	m.ageTable.SetRows(ageRows(m.network))
	if m.network == nil {
		m.viewport.SetContent("Pick filters and press enter to generate the network.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	b.WriteString(netTitleStyle.Render(m.network.Title))
	b.WriteString("\n\n")
	b.WriteString(render.Star(*m.network, width, true))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("Graph Summary Statistics:"))
	b.WriteString("\n")
	b.WriteString(render.SummaryText(m.network.Summary))
	m.viewport.SetContent(strings.TrimRight(b.String(), "\n"))
	m.viewport.GotoTop()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = 1 + len(m.selectors) + tabsHeight
	footerHeight = 1
	if m.notice != "" || m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	m.ageTable.SetWidth(m.width)
	m.ageTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) renderHeader() string {
	lines := []string{titleStyle.Render(appTitle)}
	lines = append(lines, m.renderSelectors()...)
	lines = append(lines, m.renderTabs())
	return strings.Join(lines, "\n")
}

func (m *Model) renderSelectors() []string {
	labelWidth := 0
	for _, s := range m.selectors {
		if w := lipgloss.Width(s.label); w > labelWidth {
			labelWidth = w
		}
	}
	lines := make([]string, 0, len(m.selectors))
	for i, s := range m.selectors {
		label := fmt.Sprintf("%-*s", labelWidth, s.label)
		value := s.value()
		if value == "" {
			value = "(none)"
		}
		if i == m.focus {
			lines = append(lines, focusStyle.Render("> "+label)+"  "+focusStyle.Render("< "+value+" >"))
			continue
		}
		lines = append(lines, labelStyle.Render("  "+label)+"  "+valueStyle.Render("  "+value))
	}
	return lines
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	if m.activeTab == tabAgeGroups {
		if m.network == nil {
			return "No network generated yet."
		}
		return tableMuteStyle.Render(m.ageTable.View())
	}
	return m.viewport.View()
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Field: up/down  Value: left/right  Generate: enter  View: tab  Quit: q")
	switch {
	case m.errMsg != "":
		return help + "\n" + errorStyle.Render(m.errMsg)
	case m.notice != "":
		return help + "\n" + warnStyle.Render(m.notice)
	default:
		return help
	}
}

func newAgeTable() table.Model {
	columns := []table.Column{
		{Title: "Age Group", Width: 10},
		{Title: "Purchases", Width: 10},
		{Title: "Share", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	t.Focus()
	return t
}

func ageRows(net *model.PurchaseNetwork) []table.Row {
	if net == nil {
		return nil
	}
	total := 0
	for _, b := range net.Buckets {
		total += b.Count
	}
	rows := make([]table.Row, 0, len(net.Buckets))
	for _, b := range net.Buckets {
		share := float64(b.Count) / float64(total) * 100
		rows = append(rows, table.Row{b.Label, fmt.Sprintf("%d", b.Count), fmt.Sprintf("%.1f%%", share)})
	}
	return rows
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
