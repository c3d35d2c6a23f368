package oogway

import (
	"context"
)

// Build version & commit SHA, propagated from main at startup.
var (
	Version string
	Commit  string
)

// Discord brand palette used by embeds across the transport layer.
const (
	ColorBlurple       = 0x5865F2
	ColorGreen         = 0x57F287
	ColorRed           = 0xED4245
	ColorYellow        = 0xFEE75C
	ColorNotQuiteBlack = 0x23272A
)

// Itoe converts a small positive integer to its keycap emoji. Used for
// ranked lists in embeds.
func Itoe(i int) string {
	emojis := []string{
		"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣",
		"6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟",
	}
	if i < 1 || i > len(emojis) {
		return "🔢"
	}
	return emojis[i-1]
}

// Champion is one entry of the champion catalog, as served by the external
// data source.
type Champion struct {
	// Canonical identifier, e.g. "MonkeyKing".
	ID string

	// Display name, e.g. "Wukong".
	Name string
}

// ChampionSource fetches the current champion list from the external data
// source. Implemented by the ddragon package.
type ChampionSource interface {
	FetchChampions(ctx context.Context) ([]Champion, error)
}

// ChampionStats aggregates how often a champion was picked, banned and on
// the winning side across all reported games.
type ChampionStats struct {
	ChampionID string
	Picks      int
	Bans       int
	Wins       int
}

// Presence is the combined pick + ban count.
func (s *ChampionStats) Presence() int {
	return s.Picks + s.Bans
}

// Winrate returns the pick winrate in percent. Zero picks yield zero.
func (s *ChampionStats) Winrate() float64 {
	if s.Picks == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Picks) * 100
}

// StatsFilter represents a filter passed to FindChampionStats().
type StatsFilter struct {
	ChampionID *string

	// Limit and offset.
	Limit  int
	Offset int
}

// StatsService records game outcomes and serves aggregated champion
// statistics. Recording is fire-and-forget from the draft core's point of
// view: failures are logged by the caller, never block series progression.
type StatsService interface {
	// Bumps pick/ban counters for every champion of the game and win
	// counters for the winning side's picks.
	RecordGame(ctx context.Context, game *Game) error

	// Retrieves aggregated per-champion counters by filter, ordered by
	// presence. Also returns the total count of rows matching the filter.
	FindChampionStats(ctx context.Context, filter StatsFilter) ([]*ChampionStats, int, error)
}
