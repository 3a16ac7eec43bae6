package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/tickmatch/internal/orderbook/core"
	"github.com/zappabad/tickmatch/internal/report"
	"github.com/zappabad/tickmatch/tui/styles"
)

// Candle aggregates the mark price over a run of simulation ticks.
type Candle struct {
	Open  core.PriceTicks
	High  core.PriceTicks
	Low   core.PriceTicks
	Close core.PriceTicks
	Tick  int
}

// ChartPanel draws mark price candles.
type ChartPanel struct {
	candles        []Candle
	ticksPerCandle int
	maxCandles     int

	focused bool
	width   int
	height  int
}

// NewChartPanel creates a chart grouping ticksPerCandle ticks per candle.
func NewChartPanel(ticksPerCandle int) *ChartPanel {
	return &ChartPanel{
		ticksPerCandle: max(ticksPerCandle, 1),
		maxCandles:     120,
	}
}

func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	return p, nil
}

// AddMark records the mark at a tick.
func (p *ChartPanel) AddMark(tick int, mark core.PriceTicks) {
	if mark <= 0 {
		return
	}
	start := tick / p.ticksPerCandle * p.ticksPerCandle
	if n := len(p.candles); n > 0 && p.candles[n-1].Tick == start {
		c := &p.candles[n-1]
		c.High = max(c.High, mark)
		c.Low = min(c.Low, mark)
		c.Close = mark
		return
	}

	p.candles = append(p.candles, Candle{Open: mark, High: mark, Low: mark, Close: mark, Tick: start})
	if len(p.candles) > p.maxCandles {
		p.candles = p.candles[len(p.candles)-p.maxCandles:]
	}
}

// Candles returns the candles held, oldest first.
func (p *ChartPanel) Candles() []Candle {
	return p.candles
}

// View renders the panel.
func (p *ChartPanel) View() string {
	var content string
	if len(p.candles) == 0 {
		content = styles.MutedStyle.Render("Waiting for a mark price...")
	} else {
		content = p.render(p.width-14, max(p.height-5, 4))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	title := styles.RenderTitle(fmt.Sprintf("Mark (%d ticks/candle)", p.ticksPerCandle), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content)

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ChartPanel) render(width, rows int) string {
	shown := p.candles
	if n := max(width/2, 1); len(shown) > n {
		shown = shown[len(shown)-n:]
	}

	lo, hi := shown[0].Low, shown[0].High
	for _, c := range shown {
		lo = min(lo, c.Low)
		hi = max(hi, c.High)
	}
	if hi-lo < core.PriceTicks(rows) {
		pad := (core.PriceTicks(rows) - (hi - lo)) / 2
		lo -= pad
		hi = lo + core.PriceTicks(rows)
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		top := rowPrice(row, rows, lo, hi)
		bottom := rowPrice(row+1, rows, lo, hi)
		b.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%9s │", report.Price(top))))
		for _, c := range shown {
			b.WriteString(candleCell(c, bottom, top))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.ChartAxisStyle.Render("──────────┴" + strings.Repeat("──", len(shown))))
	return b.String()
}

// rowPrice maps a row boundary to a price, row 0 being the top.
func rowPrice(row, rows int, lo, hi core.PriceTicks) core.PriceTicks {
	return hi - (hi-lo)*core.PriceTicks(row)/core.PriceTicks(rows)
}

func candleCell(c Candle, bottom, top core.PriceTicks) string {
	style := styles.CandleUpStyle
	if c.Close < c.Open {
		style = styles.CandleDownStyle
	}
	bodyLo, bodyHi := min(c.Open, c.Close), max(c.Open, c.Close)

	switch {
	case bodyHi >= bottom && bodyLo <= top:
		return style.Render("┃")
	case c.High >= bottom && c.Low <= top:
		return style.Render("│")
	}
	return " "
}

func (p *ChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
