package draft

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/oogwaybot/oogway"
)

// Decision is what happens to a series after a game's winner is reported.
type Decision string

const (
	// DecisionContinue moves straight to side choice and the next game.
	DecisionContinue Decision = "continue"

	// DecisionOfferNextTier proposes extending a decided Bo1 to Bo3 or a
	// decided Bo3 to Bo5.
	DecisionOfferNextTier Decision = "offer_next_tier"

	// DecisionOfferBelle proposes a tie-breaking replay at the current
	// tier; declining ends the series tied.
	DecisionOfferBelle Decision = "offer_belle"

	// DecisionComplete finalizes the series with a winner.
	DecisionComplete Decision = "series_complete"
)

// Decide classifies the post-report series state. It is a pure function of
// the score and the current best-of count.
func Decide(s *oogway.Series) Decision {
	if s.Decided() {
		if s.BestOf >= 5 {
			return DecisionComplete
		}
		return DecisionOfferNextTier
	}
	if s.TiedAtMidpoint() {
		return DecisionOfferBelle
	}
	return DecisionContinue
}

// NextTier maps a best-of count to the next offered one.
func NextTier(bestOf int) int {
	switch bestOf {
	case 1:
		return 3
	case 3:
		return 5
	}
	return bestOf
}

// Controller governs series continuation after each game's winner report.
type Controller struct {
	Logger *slog.Logger

	registry *oogway.SeriesRegistry
	engine   *Engine
	stats    oogway.StatsService
}

func NewController(registry *oogway.SeriesRegistry, engine *Engine, stats oogway.StatsService) *Controller {
	return &Controller{
		Logger:   slog.Default(),
		registry: registry,
		engine:   engine,
		stats:    stats,
	}
}

// Start registers a fresh series and drafts its first game. The caller owns
// what happens on error; a failed draft leaves the registry entry behind
// for supervisory cleanup.
func (c *Controller) Start(ctx context.Context, ch Channel, series *oogway.Series) error {
	if err := c.registry.Create(series); err != nil {
		return err
	}

	c.Logger.Info("series started",
		"series", series.ID,
		"channel", series.ChannelID,
		"best_of", series.BestOf)

	if err := c.engine.Run(ctx, ch, series); err != nil {
		return err
	}
	return ch.AnnounceRecap(ctx, series)
}

// Report applies a winner report to the series hosted by the channel and
// returns the progression decision. A report for a game that already has a
// winner is rejected with a conflict and changes nothing.
func (c *Controller) Report(ctx context.Context, channelID snowflake.ID, side oogway.Side) (Decision, error) {
	series, err := c.registry.Find(channelID)
	if err != nil {
		return "", err
	}

	if err := series.ReportWinner(side); err != nil {
		return "", err
	}

	c.Logger.Info("game reported",
		"series", series.ID,
		"winner", side,
		"score_a", series.ScoreA,
		"score_b", series.ScoreB)

	// Meta statistics are fire-and-forget: a sink failure must never
	// block series progression.
	if c.stats != nil {
		if err := c.stats.RecordGame(ctx, series.CurrentGame()); err != nil {
			c.Logger.Warn("stats update failed", "series", series.ID, "error", err)
		}
	}

	return Decide(series), nil
}

// Advance runs the long continuation after Report: captain votes, side
// choice, ready check and the next draft, or finalization. It blocks for
// the whole next draft and is expected to run on the session's goroutine.
func (c *Controller) Advance(ctx context.Context, ch Channel, p Prompter, series *oogway.Series, decision Decision) error {
	gameWinner := series.CurrentGame().Winner

	switch decision {
	case DecisionComplete:
		return c.finalize(ctx, ch, series, series.Leader())

	case DecisionOfferNextTier:
		next := NextTier(series.BestOf)
		accepted, err := p.OfferContinue(ctx, series, next, false)
		if err != nil {
			return err
		}
		if !accepted {
			return c.finalize(ctx, ch, series, series.Leader())
		}
		series.BestOf = next
		c.Logger.Info("series extended", "series", series.ID, "best_of", next)

	case DecisionOfferBelle:
		accepted, err := p.OfferContinue(ctx, series, series.BestOf, true)
		if err != nil {
			return err
		}
		if !accepted {
			return c.finalize(ctx, ch, series, "")
		}
		c.Logger.Info("belle accepted", "series", series.ID)
	}

	// The losing captain of the game just played chooses sides.
	loser := series.Captain(gameWinner.Opponent())
	swap, err := p.OfferSideChoice(ctx, series, loser)
	if err != nil {
		return err
	}
	if swap {
		series.SwapSides()
		c.Logger.Info("sides swapped", "series", series.ID)
	}

	if err := p.ReadyCheck(ctx, series); err != nil {
		return err
	}

	if !c.registry.Contains(series.ChannelID) {
		return oogway.Errorf(oogway.ENOTFOUND, "Series is no longer active.")
	}

	series.StartNewGame()
	if len(series.FearlessPool) > 0 {
		if err := ch.AnnounceFearless(ctx, series); err != nil {
			return err
		}
	}

	if err := c.engine.Run(ctx, ch, series); err != nil {
		return err
	}
	return ch.AnnounceRecap(ctx, series)
}

// finalize removes the series from the registry and publishes the result.
// A finalized series cannot be resumed.
func (c *Controller) finalize(ctx context.Context, ch Channel, series *oogway.Series, winner oogway.Side) error {
	c.registry.Remove(series.ChannelID)

	c.Logger.Info("series finalized",
		"series", series.ID,
		"winner", winner,
		"score_a", series.ScoreA,
		"score_b", series.ScoreB)

	return ch.AnnounceSeriesEnd(ctx, series, winner)
}
