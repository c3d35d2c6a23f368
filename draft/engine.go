package draft

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oogwaybot/oogway"
)

const (
	// DefaultTurnTimeout is the input window of a regular turn.
	DefaultTurnTimeout = 60 * time.Second

	// DefaultSoloTurnTimeout replaces it when a single real participant
	// drafts against placeholders, so test drafts fast-forward.
	DefaultSoloTurnTimeout = 2 * time.Second

	maxSuggestions = 3
)

// Engine executes one complete draft (bans and picks) for the current game
// of a series, turn by turn in the fixed Order.
type Engine struct {
	TurnTimeout     time.Duration
	SoloTurnTimeout time.Duration
	Logger          *slog.Logger

	catalog  Catalog
	registry *oogway.SeriesRegistry
}

func NewEngine(catalog Catalog, registry *oogway.SeriesRegistry) *Engine {
	return &Engine{
		TurnTimeout:     DefaultTurnTimeout,
		SoloTurnTimeout: DefaultSoloTurnTimeout,
		Logger:          slog.Default(),
		catalog:         catalog,
		registry:        registry,
	}
}

// Run drives all 20 turns of the current game. It returns early when the
// series is cancelled out from under it or the channel fails; per-turn
// input problems never escalate, and a turn that times out is filled with a
// random legal champion.
func (e *Engine) Run(ctx context.Context, ch Channel, series *oogway.Series) error {
	turnTime := e.TurnTimeout
	if series.RealParticipants() == 1 {
		turnTime = e.SoloTurnTimeout
	}

	e.Logger.Info("draft started",
		"series", series.ID,
		"game", len(series.Games),
		"turn_time", turnTime)

	for turn, step := range Order {
		if !e.registry.Contains(series.ChannelID) {
			return oogway.Errorf(oogway.ENOTFOUND, "Series is no longer active.")
		}

		if err := ch.AnnounceTurn(ctx, series, turn); err != nil {
			return err
		}

		championID, err := e.awaitChoice(ctx, ch, series, step, turnTime)
		if err != nil {
			return err
		}

		timedOut := championID == ""
		if timedOut {
			championID, err = e.fallback(series)
			if err != nil {
				return err
			}
			if err := ch.AnnounceFallback(ctx, series, turn, championID); err != nil {
				return err
			}
		}

		if !e.registry.Contains(series.ChannelID) {
			return oogway.Errorf(oogway.ENOTFOUND, "Series is no longer active.")
		}

		if step.Action == ActionBan {
			series.RecordBan(step.Side, championID)
		} else {
			series.RecordPick(step.Side, championID)
		}

		e.Logger.Info("turn recorded",
			"series", series.ID,
			"turn", turn,
			"side", step.Side,
			"action", step.Action,
			"champion", championID,
			"timed_out", timedOut)
	}

	e.Logger.Info("draft completed", "series", series.ID, "game", len(series.Games))
	return nil
}

// awaitChoice runs one turn's input window. It returns "" when the window
// closed without an accepted champion.
func (e *Engine) awaitChoice(ctx context.Context, ch Channel, series *oogway.Series, step Step, turnTime time.Duration) (string, error) {
	captain := series.Captain(step.Side)

	turnCtx, cancel := context.WithTimeout(ctx, turnTime)
	defer cancel()

	for {
		text, err := ch.AwaitMessage(turnCtx, captain)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return "", nil
			}
			return "", err
		}

		cmd := ParseCommand(text)

		championID, ok := e.catalog.Resolve(cmd.Name)
		if !ok {
			suggestions := e.catalog.Suggest(cmd.Name, maxSuggestions)
			if err := ch.NotifyUnknown(ctx, captain, cmd.Name, suggestions); err != nil {
				return "", err
			}
			continue
		}

		if series.Locked(championID) {
			if err := ch.NotifyTaken(ctx, captain, championID); err != nil {
				return "", err
			}
			continue
		}

		return championID, nil
	}
}

// fallback selects a random champion that is legal for the current game.
func (e *Engine) fallback(series *oogway.Series) (string, error) {
	championID, ok := e.catalog.Random(series.Locked)
	if !ok {
		return "", oogway.Errorf(oogway.EUNAVAILABLE, "No champion left to auto-select.")
	}
	return championID, nil
}
