package oogway_test

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/oogwaybot/oogway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeries(bestOf int) *oogway.Series {
	return oogway.NewSeries(1, bestOf,
		[]snowflake.ID{10, 11, 12, 13, 14},
		[]snowflake.ID{20, 21, 22, 23, 24},
		10, 20)
}

func TestSeries_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, newSeries(3).Validate())
	})

	t.Run("even best-of", func(t *testing.T) {
		s := newSeries(3)
		s.BestOf = 2
		err := s.Validate()
		require.Error(t, err)
		assert.Equal(t, oogway.EINVALID, oogway.ErrorCode(err))
	})

	t.Run("captain outside roster", func(t *testing.T) {
		s := newSeries(3)
		s.CaptainA = 999
		err := s.Validate()
		require.Error(t, err)
		assert.Equal(t, oogway.EINVALID, oogway.ErrorCode(err))
	})

	t.Run("empty team", func(t *testing.T) {
		s := newSeries(3)
		s.TeamB = nil
		require.Error(t, s.Validate())
	})
}

func TestSeries_ReportWinner(t *testing.T) {
	t.Run("bumps score and closes the game", func(t *testing.T) {
		s := newSeries(3)
		require.NoError(t, s.ReportWinner(oogway.SideA))
		assert.Equal(t, 1, s.ScoreA)
		assert.Equal(t, 0, s.ScoreB)
		assert.True(t, s.CurrentGame().Completed())
	})

	t.Run("double report is a conflict and changes nothing", func(t *testing.T) {
		s := newSeries(3)
		require.NoError(t, s.ReportWinner(oogway.SideB))

		err := s.ReportWinner(oogway.SideA)
		require.Error(t, err)
		assert.Equal(t, oogway.ECONFLICT, oogway.ErrorCode(err))
		assert.Equal(t, 0, s.ScoreA)
		assert.Equal(t, 1, s.ScoreB)
		assert.Equal(t, oogway.SideB, s.CurrentGame().Winner)
	})

	t.Run("unknown side is invalid", func(t *testing.T) {
		s := newSeries(3)
		err := s.ReportWinner("C")
		require.Error(t, err)
		assert.Equal(t, oogway.EINVALID, oogway.ErrorCode(err))
	})

	t.Run("score equals completed games", func(t *testing.T) {
		s := newSeries(5)
		require.NoError(t, s.ReportWinner(oogway.SideA))
		s.StartNewGame()
		require.NoError(t, s.ReportWinner(oogway.SideB))
		s.StartNewGame()
		require.NoError(t, s.ReportWinner(oogway.SideA))

		completed := 0
		for _, g := range s.Games {
			if g.Completed() {
				completed++
			}
		}
		assert.Equal(t, s.ScoreA+s.ScoreB, completed)

		// At most one game without a winner at any time.
		open := len(s.Games) - completed
		assert.LessOrEqual(t, open, 1)
	})
}

func TestSeries_SwapSides(t *testing.T) {
	s := newSeries(3)
	s.ScoreA, s.ScoreB = 2, 1

	teamA, teamB := s.TeamA, s.TeamB
	s.SwapSides()
	assert.Equal(t, teamB, s.TeamA)
	assert.Equal(t, teamA, s.TeamB)
	assert.Equal(t, snowflake.ID(20), s.CaptainA)
	assert.Equal(t, snowflake.ID(10), s.CaptainB)
	assert.Equal(t, 1, s.ScoreA)
	assert.Equal(t, 2, s.ScoreB)

	// Applying the swap twice restores everything.
	s.SwapSides()
	assert.Equal(t, teamA, s.TeamA)
	assert.Equal(t, teamB, s.TeamB)
	assert.Equal(t, snowflake.ID(10), s.CaptainA)
	assert.Equal(t, snowflake.ID(20), s.CaptainB)
	assert.Equal(t, 2, s.ScoreA)
	assert.Equal(t, 1, s.ScoreB)
}

func TestSeries_FearlessPool(t *testing.T) {
	s := newSeries(3)

	s.RecordBan(oogway.SideA, "Aatrox")
	assert.Empty(t, s.FearlessPool, "bans never enter the pool")

	s.RecordPick(oogway.SideA, "Darius")
	s.RecordPick(oogway.SideB, "Jinx")
	assert.Contains(t, s.FearlessPool, "Darius")
	assert.Contains(t, s.FearlessPool, "Jinx")

	assert.True(t, s.Locked("Aatrox"), "banned this game")
	assert.True(t, s.Locked("Darius"), "picked this game")
	assert.False(t, s.Locked("Teemo"))

	// A new game releases this game's bans but keeps all picks locked.
	require.NoError(t, s.ReportWinner(oogway.SideA))
	s.StartNewGame()
	assert.False(t, s.Locked("Aatrox"))
	assert.True(t, s.Locked("Darius"))

	assert.Equal(t, []string{"Darius", "Jinx"}, s.FearlessChampions())
}

func TestSeries_Progress(t *testing.T) {
	s := newSeries(3)
	assert.Equal(t, 2, s.Target())
	assert.False(t, s.Decided())
	assert.False(t, s.TiedAtMidpoint())
	assert.Equal(t, oogway.Side(""), s.Leader())

	s.ScoreA, s.ScoreB = 1, 1
	assert.True(t, s.TiedAtMidpoint())

	s.ScoreA = 2
	assert.True(t, s.Decided())
	assert.Equal(t, oogway.SideA, s.Leader())

	bo1 := newSeries(1)
	assert.False(t, bo1.TiedAtMidpoint(), "a Bo1 has no midpoint tie")
}

func TestSeries_RealParticipants(t *testing.T) {
	s := oogway.NewSeries(1, 1, []snowflake.ID{10}, []snowflake.ID{0}, 10, 0)
	assert.Equal(t, 1, s.RealParticipants())
	assert.Equal(t, 10, newSeries(3).RealParticipants())
}
