package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/tickmatch/internal/orderbook/core"
	"github.com/zappabad/tickmatch/internal/simulation"
	"github.com/zappabad/tickmatch/tui/panels"
	"github.com/zappabad/tickmatch/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusOrderbook PanelFocus = 0
	FocusChart     PanelFocus = 1
	FocusAccount   PanelFocus = 2

	panelCount = 3
)

// BookSource is the read side of a running book.
type BookSource interface {
	Top() core.Top
	Levels(side core.Side) []core.LevelInfo
	TradesLast(n int) []core.Trade
}

// Options tune the dashboard.
type Options struct {
	Interval       time.Duration
	StepsPerFrame  int
	TicksPerCandle int
	TotalTicks     int
}

// DefaultOptions returns sensible defaults for the dashboard.
func DefaultOptions() Options {
	return Options{
		Interval:       50 * time.Millisecond,
		StepsPerFrame:  1,
		TicksPerCandle: 20,
	}
}

// Model is the main TUI application model.
type Model struct {
	ctx    context.Context
	runner *simulation.Runner
	book   BookSource
	opts   Options

	orderbookPanel *panels.OrderbookPanel
	chartPanel     *panels.ChartPanel
	accountPanel   *panels.AccountPanel

	focusedPanel PanelFocus
	paused       bool

	width  int
	height int

	statusMsg string
	ready     bool
}

// NewModel creates a dashboard that steps runner and reads book.
func NewModel(ctx context.Context, runner *simulation.Runner, book BookSource, opts Options) *Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultOptions().Interval
	}
	if opts.StepsPerFrame <= 0 {
		opts.StepsPerFrame = 1
	}

	return &Model{
		ctx:            ctx,
		runner:         runner,
		book:           book,
		opts:           opts,
		orderbookPanel: panels.NewOrderbookPanel(),
		chartPanel:     panels.NewChartPanel(opts.TicksPerCandle),
		accountPanel:   panels.NewAccountPanel(),
		focusedPanel:   FocusOrderbook,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.orderbookPanel.Init(),
		m.chartPanel.Init(),
		m.accountPanel.Init(),
		m.tickRefresh(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % panelCount
		case "shift+tab":
			m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		case " ":
			m.paused = !m.paused
		case "n":
			if m.paused {
				m.advance(1)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tickMsg:
		if !m.paused {
			m.advance(m.opts.StepsPerFrame)
		}
		cmds = append(cmds, m.tickRefresh())
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusOrderbook:
		m.orderbookPanel, cmd = m.orderbookPanel.Update(msg)
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusAccount:
		m.accountPanel, cmd = m.accountPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// advance steps the runner up to n ticks and refreshes the panels.
func (m *Model) advance(n int) {
	for i := 0; i < n && !m.runner.Done(); i++ {
		if err := m.runner.Step(m.ctx); err != nil {
			m.statusMsg = "step failed: " + err.Error()
			m.paused = true
			break
		}
		m.chartPanel.AddMark(m.runner.Tick(), m.runner.PnL().Mark)
	}
	if m.runner.Done() && m.statusMsg == "" {
		m.statusMsg = fmt.Sprintf("finished after %d ticks", m.runner.Tick())
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.orderbookPanel.SetLevels(m.book.Levels(core.SideBuy), m.book.Levels(core.SideSell))
	m.orderbookPanel.SetTrades(m.book.TradesLast(20))
	m.accountPanel.SetState(
		m.runner.PnL(),
		m.runner.Latency(),
		m.book.Top(),
		m.runner.Tick(),
		m.opts.TotalTicks,
		m.runner.TradeCount(),
	)
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.orderbookPanel.SetFocus(m.focusedPanel == FocusOrderbook)
	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.accountPanel.SetFocus(m.focusedPanel == FocusAccount)

	// Layout:
	// ┌─────────────┬───────────────────────────┐
	// │  Orderbook  │          Chart            │
	// │             ├───────────────────────────┤
	// │             │         Account           │
	// └─────────────┴───────────────────────────┘

	leftWidth := m.width * 2 / 5
	rightWidth := m.width - leftWidth
	bodyHeight := m.height - 1
	chartHeight := bodyHeight * 3 / 5
	accountHeight := bodyHeight - chartHeight

	m.orderbookPanel.SetSize(leftWidth, bodyHeight)
	m.chartPanel.SetSize(rightWidth, chartHeight)
	m.accountPanel.SetSize(rightWidth, accountHeight)

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.chartPanel.View(),
		m.accountPanel.View(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.orderbookPanel.View(), right)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	pause := " pause"
	if m.paused {
		pause = " resume │ " + styles.StatusBarKeyStyle.Render("n") + styles.StatusBarDescStyle.Render(" step")
	}
	help := []string{
		styles.StatusBarKeyStyle.Render("Tab") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("↑↓") + styles.StatusBarDescStyle.Render(" scroll"),
		styles.StatusBarKeyStyle.Render("Space") + styles.StatusBarDescStyle.Render(pause),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := lipgloss.JoinHorizontal(lipgloss.Center, help[0], " │ ", help[1], " │ ", help[2], " │ ", help[3])

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

// Paused reports whether stepping is suspended.
func (m *Model) Paused() bool {
	return m.paused
}

// Focus returns the focused panel.
func (m *Model) Focus() PanelFocus {
	return m.focusedPanel
}

// Status returns the status bar message.
func (m *Model) Status() string {
	return m.statusMsg
}

// tickMsg is sent periodically to advance the simulation.
type tickMsg struct{}

func (m *Model) tickRefresh() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
