package oogway

import (
	"sort"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// Side identifies one of the two teams of a game.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Game is a single drafted game inside a series. Picks and bans are
// append-only while the draft runs; Winner is set exactly once when a
// captain reports the result.
type Game struct {
	PicksA []string
	PicksB []string
	BansA  []string
	BansB  []string

	// "A" or "B". Empty until reported.
	Winner Side
}

// Completed reports whether a winner has been recorded for the game.
func (g *Game) Completed() bool {
	return g.Winner != ""
}

// Taken reports whether a champion already occupies a pick or ban slot of
// this game.
func (g *Game) Taken(championID string) bool {
	for _, list := range [][]string{g.PicksA, g.PicksB, g.BansA, g.BansB} {
		for _, id := range list {
			if id == championID {
				return true
			}
		}
	}
	return false
}

// Picks returns the pick sequence of the given side.
func (g *Game) Picks(side Side) []string {
	if side == SideA {
		return g.PicksA
	}
	return g.PicksB
}

// Bans returns the ban sequence of the given side.
func (g *Game) Bans(side Side) []string {
	if side == SideA {
		return g.BansA
	}
	return g.BansB
}

// Series is the in-memory state of one best-of-N series. It lives only for
// the lifetime of the process and is owned by the single draft session that
// created it; there is no durable persistence to resume from.
type Series struct {
	ID string

	// Discord channel (thread) hosting the draft. At most one series
	// exists per channel.
	ChannelID snowflake.ID

	// Odd number of games: 1, 3 or 5. Only grows, by captain vote.
	BestOf int

	TeamA []snowflake.ID
	TeamB []snowflake.ID

	CaptainA snowflake.ID
	CaptainB snowflake.ID

	ScoreA int
	ScoreB int

	// Champions picked in any game of the series so far. They cannot be
	// picked again in later games. Grows only; discarded with the series.
	FearlessPool map[string]struct{}

	// Games played so far, last one being the current game. At most one
	// game lacks a winner at any time.
	Games []*Game

	CreatedAt time.Time
}

// NewSeries returns a series with a fresh short id and its first open game.
func NewSeries(channelID snowflake.ID, bestOf int, teamA, teamB []snowflake.ID, captainA, captainB snowflake.ID) *Series {
	return &Series{
		ID:           uuid.NewString()[:8],
		ChannelID:    channelID,
		BestOf:       bestOf,
		TeamA:        teamA,
		TeamB:        teamB,
		CaptainA:     captainA,
		CaptainB:     captainB,
		FearlessPool: make(map[string]struct{}),
		Games:        []*Game{{}},
		CreatedAt:    time.Now(),
	}
}

// Validate returns an error if the series is not well formed.
func (s *Series) Validate() error {
	if s.BestOf != 1 && s.BestOf != 3 && s.BestOf != 5 {
		return Errorf(EINVALID, "Best-of must be 1, 3 or 5.")
	}

	if len(s.TeamA) == 0 || len(s.TeamB) == 0 {
		return Errorf(EINVALID, "Both teams need at least one player.")
	}

	if !contains(s.TeamA, s.CaptainA) {
		return Errorf(EINVALID, "Captain A must be a member of team A.")
	}

	if !contains(s.TeamB, s.CaptainB) {
		return Errorf(EINVALID, "Captain B must be a member of team B.")
	}

	return nil
}

// CurrentGame returns the game currently being drafted or awaiting a result.
func (s *Series) CurrentGame() *Game {
	return s.Games[len(s.Games)-1]
}

// StartNewGame appends a fresh game to the series.
func (s *Series) StartNewGame() {
	s.Games = append(s.Games, &Game{})
}

// Target is the number of game wins that decides the series at its current
// best-of count.
func (s *Series) Target() int {
	return s.BestOf/2 + 1
}

// Decided reports whether either side has reached the target score.
func (s *Series) Decided() bool {
	return s.ScoreA >= s.Target() || s.ScoreB >= s.Target()
}

// TiedAtMidpoint reports whether the series sits at the midpoint tie of its
// current best-of count (1-1 in a Bo3, 2-2 in a Bo5).
func (s *Series) TiedAtMidpoint() bool {
	return s.BestOf > 1 && s.ScoreA == s.ScoreB && s.ScoreA == s.BestOf/2
}

// Leader returns the side currently ahead on score, or "" on a tie.
func (s *Series) Leader() Side {
	switch {
	case s.ScoreA > s.ScoreB:
		return SideA
	case s.ScoreB > s.ScoreA:
		return SideB
	}
	return ""
}

// Captain returns the captain acting for the given side.
func (s *Series) Captain(side Side) snowflake.ID {
	if side == SideA {
		return s.CaptainA
	}
	return s.CaptainB
}

// Team returns the roster of the given side.
func (s *Series) Team(side Side) []snowflake.ID {
	if side == SideA {
		return s.TeamA
	}
	return s.TeamB
}

// ReportWinner records the result of the current game and bumps the score.
// Reporting a game that already has a winner is rejected and leaves the
// series untouched.
func (s *Series) ReportWinner(side Side) error {
	if !side.Valid() {
		return Errorf(EINVALID, "Unknown side %q.", side)
	}

	game := s.CurrentGame()
	if game.Completed() {
		return Errorf(ECONFLICT, "This game already has a reported winner.")
	}

	game.Winner = side
	if side == SideA {
		s.ScoreA++
	} else {
		s.ScoreB++
	}
	return nil
}

// RecordBan appends a ban for the given side to the current game.
func (s *Series) RecordBan(side Side, championID string) {
	game := s.CurrentGame()
	if side == SideA {
		game.BansA = append(game.BansA, championID)
	} else {
		game.BansB = append(game.BansB, championID)
	}
}

// RecordPick appends a pick for the given side to the current game and adds
// the champion to the fearless pool.
func (s *Series) RecordPick(side Side, championID string) {
	game := s.CurrentGame()
	if side == SideA {
		game.PicksA = append(game.PicksA, championID)
	} else {
		game.PicksB = append(game.PicksB, championID)
	}
	s.FearlessPool[championID] = struct{}{}
}

// Locked reports whether a champion is unavailable for the current game,
// either because a slot of this game already holds it or because it sits in
// the fearless pool.
func (s *Series) Locked(championID string) bool {
	if _, ok := s.FearlessPool[championID]; ok {
		return true
	}
	return s.CurrentGame().Taken(championID)
}

// FearlessChampions returns the fearless pool as a sorted slice.
func (s *Series) FearlessChampions() []string {
	ids := make([]string, 0, len(s.FearlessPool))
	for id := range s.FearlessPool {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SwapSides exchanges the two teams wholesale: rosters, captains and score
// counters. Applying it twice restores the original state.
func (s *Series) SwapSides() {
	s.TeamA, s.TeamB = s.TeamB, s.TeamA
	s.CaptainA, s.CaptainB = s.CaptainB, s.CaptainA
	s.ScoreA, s.ScoreB = s.ScoreB, s.ScoreA
}

// RealParticipants counts participants that are actual Discord users.
// Placeholder slots created for testing carry a zero id.
func (s *Series) RealParticipants() int {
	n := 0
	for _, id := range s.TeamA {
		if id != 0 {
			n++
		}
	}
	for _, id := range s.TeamB {
		if id != 0 {
			n++
		}
	}
	return n
}

func contains(ids []snowflake.ID, id snowflake.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
