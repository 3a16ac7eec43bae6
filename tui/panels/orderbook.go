package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/tickmatch/internal/orderbook/core"
	"github.com/zappabad/tickmatch/internal/report"
	"github.com/zappabad/tickmatch/tui/styles"
)

var (
	scrollUp   = key.NewBinding(key.WithKeys("up", "k"))
	scrollDown = key.NewBinding(key.WithKeys("down", "j"))
)

// OrderbookPanel displays depth side by side and the recent trade tape.
type OrderbookPanel struct {
	bids         []core.LevelInfo
	asks         []core.LevelInfo
	trades       []core.Trade
	scrollOffset int
	focused      bool
	width        int
	height       int
	maxLevels    int
	maxTrades    int
}

// NewOrderbookPanel creates a new orderbook panel.
func NewOrderbookPanel() *OrderbookPanel {
	return &OrderbookPanel{
		maxLevels: 10,
		maxTrades: 8,
	}
}

// Init initializes the panel.
func (p *OrderbookPanel) Init() tea.Cmd {
	return nil
}

// Update scrolls the depth ladder when focused.
func (p *OrderbookPanel) Update(msg tea.Msg) (*OrderbookPanel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && p.focused {
		switch {
		case key.Matches(msg, scrollUp):
			if p.scrollOffset > 0 {
				p.scrollOffset--
			}
		case key.Matches(msg, scrollDown):
			if p.scrollOffset < max(len(p.bids), len(p.asks))-1 {
				p.scrollOffset++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *OrderbookPanel) View() string {
	var content strings.Builder

	levelsToShow := min(max(p.height-6-p.maxTrades, 3), p.maxLevels)

	header := fmt.Sprintf("%8s %9s │ %-9s %-8s", "BidSz", "Bid", "Ask", "AskSz")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	bids := window(p.bids, p.scrollOffset, levelsToShow)
	asks := window(p.asks, p.scrollOffset, levelsToShow)

	for i := 0; i < max(len(bids), len(asks)); i++ {
		var bidPart, askPart string
		if i < len(bids) {
			bidPart = fmt.Sprintf("%8d %9s", bids[i].Size, report.Price(bids[i].Price))
		} else {
			bidPart = fmt.Sprintf("%8s %9s", "", "")
		}
		if i < len(asks) {
			askPart = fmt.Sprintf("%-9s %-8d", report.Price(asks[i].Price), asks[i].Size)
		}
		content.WriteString(fmt.Sprintf("%s │ %s\n", styles.BuyStyle.Render(bidPart), styles.SellStyle.Render(askPart)))
	}
	if len(bids) == 0 && len(asks) == 0 {
		content.WriteString(styles.MutedStyle.Render("Book is empty"))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(styles.HeaderStyle.Render("Recent Trades"))
	content.WriteString("\n")

	trades := p.trades
	if len(trades) > p.maxTrades {
		trades = trades[len(trades)-p.maxTrades:]
	}
	// newest first
	for i := len(trades) - 1; i >= 0; i-- {
		tr := trades[i]
		style := styles.SellStyle
		if tr.TakerSide == core.SideBuy {
			style = styles.BuyStyle
		}
		content.WriteString(style.Render(fmt.Sprintf("%6d @ %9s  #%d/#%d", tr.Size, report.Price(tr.Price), tr.BuyOrderID, tr.SellOrderID)))
		content.WriteString("\n")
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("Orderbook", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func window(levels []core.LevelInfo, offset, n int) []core.LevelInfo {
	if offset >= len(levels) {
		return nil
	}
	levels = levels[offset:]
	if len(levels) > n {
		levels = levels[:n]
	}
	return levels
}

// SetFocus sets the focus state of the panel.
func (p *OrderbookPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *OrderbookPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetLevels sets the depth to display, best first on each side.
func (p *OrderbookPanel) SetLevels(bids, asks []core.LevelInfo) {
	p.bids = bids
	p.asks = asks
}

// SetTrades replaces the trade tape, oldest first.
func (p *OrderbookPanel) SetTrades(trades []core.Trade) {
	p.trades = trades
}
