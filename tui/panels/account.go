package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/tickmatch/internal/analytics"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
	"github.com/zappabad/tickmatch/internal/report"
	"github.com/zappabad/tickmatch/tui/styles"
)

// AccountPanel shows the market maker's PnL and fill latency.
type AccountPanel struct {
	pnl     analytics.PnLSnapshot
	latency analytics.LatencyStats
	top     core.Top
	tick    int
	ticks   int
	trades  int
	focused bool
	width   int
	height  int
}

func NewAccountPanel() *AccountPanel {
	return &AccountPanel{}
}

func (p *AccountPanel) Init() tea.Cmd {
	return nil
}

func (p *AccountPanel) Update(msg tea.Msg) (*AccountPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *AccountPanel) View() string {
	var b strings.Builder

	row := func(label, value string, style lipgloss.Style) {
		b.WriteString(styles.LabelStyle.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(style.Render(value))
		b.WriteString("\n")
	}

	row("Tick", fmt.Sprintf("%d / %d", p.tick, p.ticks), styles.ValueStyle)
	row("Trades", fmt.Sprintf("%d", p.trades), styles.ValueStyle)
	row("Best bid", report.Quote(p.top.Bid), styles.BuyStyle)
	row("Best ask", report.Quote(p.top.Ask), styles.SellStyle)
	b.WriteString("\n")

	b.WriteString(styles.HeaderStyle.Render("PnL"))
	b.WriteString("\n")
	row("Position", report.Signed(p.pnl.Position), styles.Signed(p.pnl.Position))
	row("Avg cost", report.Price(p.pnl.AvgCost), styles.ValueStyle)
	row("Mark", report.Price(p.pnl.Mark), styles.HighlightStyle)
	row("Realized", report.Money(p.pnl.Realized), styles.Signed(p.pnl.Realized))
	row("Unrealized", report.Money(p.pnl.Unrealized), styles.Signed(p.pnl.Unrealized))
	row("Total", report.Money(p.pnl.Total), styles.Signed(p.pnl.Total))
	b.WriteString("\n")

	b.WriteString(styles.HeaderStyle.Render("Latency (us)"))
	b.WriteString("\n")
	row("Samples", fmt.Sprintf("%d", p.latency.Count), styles.ValueStyle)
	row("Avg", fmt.Sprintf("%d", p.latency.AvgUs), styles.ValueStyle)
	row("p50", fmt.Sprintf("%d", p.latency.P50Us), styles.ValueStyle)
	row("p95", fmt.Sprintf("%d", p.latency.P95Us), styles.ValueStyle)

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle("Account", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, b.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *AccountPanel) SetFocus(focused bool) {
	p.focused = focused
}

func (p *AccountPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetState updates everything the panel shows.
func (p *AccountPanel) SetState(pnl analytics.PnLSnapshot, latency analytics.LatencyStats, top core.Top, tick, ticks, trades int) {
	p.pnl = pnl
	p.latency = latency
	p.top = top
	p.tick = tick
	p.ticks = ticks
	p.trades = trades
}
