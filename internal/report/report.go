// Package report renders run results as plain text.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/zappabad/tickmatch/internal/analytics"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
	"github.com/zappabad/tickmatch/internal/simulation"
)

// TickExp is the decimal exponent of one price tick (0.01).
const TickExp = -2

// Price formats ticks as a price with two decimals, e.g. 10100 -> "101.00".
func Price(p core.PriceTicks) string {
	return Money(int64(p))
}

// Money formats a tick amount such as a PnL, e.g. -175 -> "-1.75".
func Money(ticks int64) string {
	return decimal.New(ticks, TickExp).StringFixed(-TickExp)
}

// Signed formats a position with an explicit sign for non-negative values.
func Signed(v int64) string {
	if v >= 0 {
		return "+" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}

// Quote formats one side of the top of book as "101.00 x 5" or "NA".
func Quote(q core.Quote) string {
	if !q.OK {
		return "NA"
	}
	return fmt.Sprintf("%s x %d", Price(q.Price), q.Size)
}

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *writer) trades(trades []core.Trade) {
	for _, tr := range trades {
		w.printf("t=%d buyId=%d sellId=%d px=%s qty=%d\n",
			tr.FillTime, tr.BuyOrderID, tr.SellOrderID, Price(tr.Price), tr.Size)
	}
}

func (w *writer) book(top core.Top) {
	w.printf("bestBid=%s\n", Quote(top.Bid))
	w.printf("bestAsk=%s\n", Quote(top.Ask))
}

func (w *writer) pnl(s analytics.PnLSnapshot) {
	w.printf("pos=%s avg=%s realized=%s unrealized=%s total=%s\n",
		Signed(s.Position), Price(s.AvgCost), Money(s.Realized), Money(s.Unrealized), Money(s.Total))
}

func (w *writer) latency(st analytics.LatencyStats) {
	w.printf("count=%d\n", st.Count)
	w.printf("avg=%d\n", st.AvgUs)
	w.printf("p50=%d\n", st.P50Us)
	w.printf("p95=%d\n", st.P95Us)
}

func WriteTrades(w io.Writer, trades []core.Trade) error {
	tw := &writer{w: w}
	tw.trades(trades)
	return tw.err
}

func WriteBook(w io.Writer, top core.Top) error {
	tw := &writer{w: w}
	tw.book(top)
	return tw.err
}

func WritePnL(w io.Writer, s analytics.PnLSnapshot) error {
	tw := &writer{w: w}
	tw.pnl(s)
	return tw.err
}

func WriteLatency(w io.Writer, st analytics.LatencyStats) error {
	tw := &writer{w: w}
	tw.latency(st)
	return tw.err
}

// Write renders res as TRADES, BOOK, PNL and LATENCY sections, preceded by
// title when it is not empty. With limit > 0 only the first limit trades
// are listed, followed by the total trade count.
func Write(w io.Writer, title string, res simulation.Result, limit int) error {
	tw := &writer{w: w}
	if title != "" {
		tw.printf("%s\n", title)
	}

	tw.printf("TRADES\n")
	if limit > 0 && len(res.Trades) > limit {
		tw.trades(res.Trades[:limit])
	} else {
		tw.trades(res.Trades)
	}
	if limit > 0 {
		tw.printf("count=%d\n", len(res.Trades))
	}

	tw.printf("BOOK\n")
	tw.book(res.Top)
	tw.printf("PNL\n")
	tw.pnl(res.PnL)
	tw.printf("LATENCY (us)\n")
	tw.latency(res.Latency)
	return tw.err
}
