package tui

import (
	"context"
	"math/rand"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/tickmatch/internal/clock"
	"github.com/zappabad/tickmatch/internal/ids"
	"github.com/zappabad/tickmatch/internal/orderbook/service"
	"github.com/zappabad/tickmatch/internal/simulation"
	"github.com/zappabad/tickmatch/internal/strategy"
)

func newTestModel(t *testing.T, ticks int) *Model {
	t.Helper()

	clk := clock.NewManual(0, 1000, 1_000_000_000)
	svc := service.NewService(service.DefaultConfig(), clk)
	t.Cleanup(svc.Close)

	gen := ids.NewSequence(0)
	rng := rand.New(rand.NewSource(7))
	mm, err := strategy.NewMarketMaker(strategy.DefaultMarketMakerConfig(), gen)
	require.NoError(t, err)
	flow, err := strategy.NewRandomFlow(strategy.DefaultRandomFlowConfig(), gen, rng)
	require.NoError(t, err)

	cfg := simulation.DefaultConfig()
	cfg.Ticks = ticks
	runner, err := simulation.NewRunner(cfg, svc, mm, clk, rng, simulation.WithExternalFlow(flow))
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.TotalTicks = ticks
	m := NewModel(context.Background(), runner, svc, opts)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTickAdvancesRunner(t *testing.T) {
	m := newTestModel(t, 3)

	m.Update(tickMsg{})
	assert.Equal(t, 1, m.runner.Tick())
	assert.NotEmpty(t, m.chartPanel.Candles())

	m.Update(tickMsg{})
	m.Update(tickMsg{})
	m.Update(tickMsg{})
	assert.Equal(t, 3, m.runner.Tick(), "runner stops at the configured tick count")
	assert.Equal(t, "finished after 3 ticks", m.Status())
}

func TestModelPauseAndSingleStep(t *testing.T) {
	m := newTestModel(t, 10)

	m.Update(key(" "))
	require.True(t, m.Paused())

	m.Update(tickMsg{})
	assert.Equal(t, 0, m.runner.Tick(), "paused model does not step on tick")

	m.Update(key("n"))
	assert.Equal(t, 1, m.runner.Tick())

	m.Update(key(" "))
	assert.False(t, m.Paused())
	m.Update(key("n"))
	assert.Equal(t, 1, m.runner.Tick(), "single step only applies while paused")
}

func TestModelFocusCycles(t *testing.T) {
	m := newTestModel(t, 1)
	assert.Equal(t, FocusOrderbook, m.Focus())

	m.Update(key("tab"))
	assert.Equal(t, FocusChart, m.Focus())
	m.Update(key("tab"))
	assert.Equal(t, FocusAccount, m.Focus())
	m.Update(key("tab"))
	assert.Equal(t, FocusOrderbook, m.Focus())

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, FocusAccount, m.Focus())
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, 1)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, 5)
	m.Update(tickMsg{})

	out := m.View()
	assert.Contains(t, out, "Orderbook")
	assert.Contains(t, out, "Account")
	assert.Contains(t, out, "Mark")
}

func TestModelViewBeforeResize(t *testing.T) {
	m := newTestModel(t, 1)
	m.ready = false
	assert.Equal(t, "Initializing...", m.View())
}
