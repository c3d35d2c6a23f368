package draft

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/oogwaybot/oogway"
)

// Catalog is the champion-resolution capability the engine needs.
// Implemented by champion.Catalog.
type Catalog interface {
	// Resolve maps free text to a canonical id under the strict cutoff.
	Resolve(text string) (string, bool)

	// Suggest returns near-matches for "did you mean" feedback.
	Suggest(text string, limit int) []string

	// Random picks a champion uniformly among those not excluded.
	Random(exclude func(id string) bool) (string, bool)
}

// Channel is the communication surface of one draft session. The core does
// not know about message formatting or threading; any returned error is
// treated as a communication failure and abandons the series.
type Channel interface {
	// AnnounceTurn publishes the board state and pings the captain whose
	// turn it is. turn indexes into Order.
	AnnounceTurn(ctx context.Context, series *oogway.Series, turn int) error

	// AnnounceFallback publishes that the turn timed out and which
	// champion was auto-selected.
	AnnounceFallback(ctx context.Context, series *oogway.Series, turn int, championID string) error

	// AnnounceFearless publishes the champions locked by earlier games.
	AnnounceFearless(ctx context.Context, series *oogway.Series) error

	// AnnounceRecap publishes the completed game's picks and bans and
	// hands off to the win-reporting mechanism.
	AnnounceRecap(ctx context.Context, series *oogway.Series) error

	// AnnounceSeriesEnd publishes the final result. winner is empty for
	// a tied series.
	AnnounceSeriesEnd(ctx context.Context, series *oogway.Series, winner oogway.Side) error

	// AwaitMessage blocks until the given participant sends a message in
	// the draft channel or ctx expires.
	AwaitMessage(ctx context.Context, from snowflake.ID) (string, error)

	// NotifyUnknown tells a captain their input did not resolve,
	// offering suggestions. Non-blocking feedback, auto-expiring.
	NotifyUnknown(ctx context.Context, to snowflake.ID, input string, suggestions []string) error

	// NotifyTaken tells a captain the champion is already taken or
	// fearless-banned.
	NotifyTaken(ctx context.Context, to snowflake.ID, championID string) error
}

// Prompter collects the captain votes that steer series progression. The
// implementations own the vote timeouts: a continue offer times out into a
// decline, a side choice into keeping sides, a ready check into proceeding.
type Prompter interface {
	// OfferContinue asks the captains to extend the series to
	// nextBestOf. tied marks a belle offer (replay at the same tier).
	OfferContinue(ctx context.Context, series *oogway.Series, nextBestOf int, tied bool) (bool, error)

	// OfferSideChoice asks the losing captain whether to swap sides.
	OfferSideChoice(ctx context.Context, series *oogway.Series, loser snowflake.ID) (swap bool, err error)

	// ReadyCheck blocks until both captains signal readiness.
	ReadyCheck(ctx context.Context, series *oogway.Series) error
}
