package draft_test

import (
	"context"
	"errors"
	"testing"

	"github.com/oogwaybot/oogway"
	"github.com/oogwaybot/oogway/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name           string
		bestOf         int
		scoreA, scoreB int
		want           draft.Decision
	}{
		{"bo1 decided offers bo3", 1, 1, 0, draft.DecisionOfferNextTier},
		{"bo3 in progress continues", 3, 1, 0, draft.DecisionContinue},
		{"bo3 midpoint tie offers belle", 3, 1, 1, draft.DecisionOfferBelle},
		{"bo3 decided offers bo5", 3, 2, 1, draft.DecisionOfferNextTier},
		{"bo5 in progress continues", 5, 2, 1, draft.DecisionContinue},
		{"bo5 midpoint tie offers belle", 5, 2, 2, draft.DecisionOfferBelle},
		{"bo5 decided completes", 5, 1, 3, draft.DecisionComplete},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSeries(1, tc.bestOf)
			s.ScoreA, s.ScoreB = tc.scoreA, tc.scoreB
			assert.Equal(t, tc.want, draft.Decide(s))
		})
	}
}

func TestNextTier(t *testing.T) {
	assert.Equal(t, 3, draft.NextTier(1))
	assert.Equal(t, 5, draft.NextTier(3))
	assert.Equal(t, 5, draft.NextTier(5))
}

func TestController_Report(t *testing.T) {
	newController := func(stats oogway.StatsService) (*draft.Controller, *oogway.SeriesRegistry) {
		registry := oogway.NewSeriesRegistry()
		engine := newTestEngine(newFakeCatalog(60), registry)
		return draft.NewController(registry, engine, stats), registry
	}

	t.Run("unknown channel is rejected", func(t *testing.T) {
		c, _ := newController(nil)
		_, err := c.Report(context.Background(), 999, oogway.SideA)
		require.Error(t, err)
		assert.Equal(t, oogway.ENOTFOUND, oogway.ErrorCode(err))
	})

	t.Run("double report leaves the series untouched", func(t *testing.T) {
		c, registry := newController(nil)
		series := newTestSeries(10, 3)
		require.NoError(t, registry.Create(series))

		_, err := c.Report(context.Background(), series.ChannelID, oogway.SideA)
		require.NoError(t, err)

		_, err = c.Report(context.Background(), series.ChannelID, oogway.SideB)
		require.Error(t, err)
		assert.Equal(t, oogway.ECONFLICT, oogway.ErrorCode(err))
		assert.Equal(t, 1, series.ScoreA)
		assert.Equal(t, 0, series.ScoreB)
		assert.Equal(t, oogway.SideA, series.CurrentGame().Winner)
	})

	t.Run("stats sink failure never blocks progression", func(t *testing.T) {
		stats := &fakeStats{err: errors.New("disk full")}
		c, registry := newController(stats)
		series := newTestSeries(11, 3)
		require.NoError(t, registry.Create(series))

		decision, err := c.Report(context.Background(), series.ChannelID, oogway.SideB)
		require.NoError(t, err)
		assert.Equal(t, draft.DecisionContinue, decision)
		require.Len(t, stats.games, 1)
		assert.Equal(t, oogway.SideB, stats.games[0].Winner)
	})
}

// Walks a full Bo3: 1-0, belle offer at 1-1, decisive third game, declined
// Bo5 extension, finalization.
func TestController_SeriesLifecycle(t *testing.T) {
	registry := oogway.NewSeriesRegistry()
	catalog := newFakeCatalog(80)
	engine := newTestEngine(catalog, registry)
	stats := &fakeStats{}
	c := draft.NewController(registry, engine, stats)

	ch := newFakeChannel()
	series := newSoloSeries(20, 3)
	ctx := context.Background()

	// Game 1 drafts entirely by timeout fallback.
	require.NoError(t, c.Start(ctx, ch, series))
	assert.Equal(t, 1, ch.recaps)
	poolAfter1 := len(series.FearlessPool)
	assert.Equal(t, 10, poolAfter1)

	// A wins game 1: 1-0, series continues without a vote.
	decision, err := c.Report(ctx, series.ChannelID, oogway.SideA)
	require.NoError(t, err)
	assert.Equal(t, draft.DecisionContinue, decision)

	p := &fakePrompter{}
	require.NoError(t, c.Advance(ctx, ch, p, series, decision))
	assert.Equal(t, 0, p.offers)
	assert.Equal(t, 1, p.swaps)
	assert.Equal(t, 1, p.readies)
	assert.Equal(t, 1, ch.fearless)
	assert.Equal(t, 2, ch.recaps)
	require.Len(t, series.Games, 2)

	// Fearless pool only grows and excludes nothing it held before.
	assert.Equal(t, 20, len(series.FearlessPool))
	assert.GreaterOrEqual(t, len(series.FearlessPool), poolAfter1)

	// B wins game 2: 1-1 midpoint tie offers the belle.
	decision, err = c.Report(ctx, series.ChannelID, oogway.SideB)
	require.NoError(t, err)
	assert.Equal(t, draft.DecisionOfferBelle, decision)

	// Belle accepted, loser chooses to swap sides.
	capA, capB := series.CaptainA, series.CaptainB
	p = &fakePrompter{continueAnswers: []bool{true}, swapAnswers: []bool{true}}
	require.NoError(t, c.Advance(ctx, ch, p, series, decision))
	assert.Equal(t, 1, p.offers)
	assert.Equal(t, capB, series.CaptainA)
	assert.Equal(t, capA, series.CaptainB)
	assert.Equal(t, 3, series.BestOf, "belle keeps the tier")
	require.Len(t, series.Games, 3)

	// A wins the belle: 2-1 decides the Bo3, a Bo5 extension is offered
	// and declined, the series finalizes with A as winner.
	decision, err = c.Report(ctx, series.ChannelID, oogway.SideA)
	require.NoError(t, err)
	assert.Equal(t, draft.DecisionOfferNextTier, decision)

	p = &fakePrompter{continueAnswers: []bool{false}}
	require.NoError(t, c.Advance(ctx, ch, p, series, decision))
	require.Len(t, ch.ends, 1)
	assert.Equal(t, oogway.SideA, ch.ends[0])
	assert.False(t, registry.Contains(series.ChannelID))

	// Score invariant held throughout: completed games equal total score.
	completed := 0
	for _, g := range series.Games {
		if g.Completed() {
			completed++
		}
	}
	assert.Equal(t, series.ScoreA+series.ScoreB, completed)
	require.Len(t, stats.games, 3)
}

func TestController_BelleDeclinedEndsTied(t *testing.T) {
	registry := oogway.NewSeriesRegistry()
	engine := newTestEngine(newFakeCatalog(60), registry)
	c := draft.NewController(registry, engine, nil)

	ch := newFakeChannel()
	series := newTestSeries(21, 3)
	require.NoError(t, registry.Create(series))

	require.NoError(t, series.ReportWinner(oogway.SideA))
	series.StartNewGame()
	require.NoError(t, series.ReportWinner(oogway.SideB))
	require.Equal(t, draft.DecisionOfferBelle, draft.Decide(series))

	p := &fakePrompter{continueAnswers: []bool{false}}
	require.NoError(t, c.Advance(context.Background(), ch, p, series, draft.DecisionOfferBelle))

	require.Len(t, ch.ends, 1)
	assert.Equal(t, oogway.Side(""), ch.ends[0], "a declined belle ends the series without a winner")
	assert.False(t, registry.Contains(series.ChannelID))
}

func TestController_CancelledSeriesCannotAdvance(t *testing.T) {
	registry := oogway.NewSeriesRegistry()
	engine := newTestEngine(newFakeCatalog(60), registry)
	c := draft.NewController(registry, engine, nil)

	ch := newFakeChannel()
	series := newTestSeries(22, 3)
	require.NoError(t, registry.Create(series))
	require.NoError(t, series.ReportWinner(oogway.SideA))

	registry.Remove(series.ChannelID)

	p := &fakePrompter{}
	err := c.Advance(context.Background(), ch, p, series, draft.DecisionContinue)
	require.Error(t, err)
	assert.Equal(t, oogway.ENOTFOUND, oogway.ErrorCode(err))
	assert.Len(t, series.Games, 1, "no new game starts for a cancelled series")
}
