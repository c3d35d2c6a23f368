package sqlite

import (
	"context"
	"strings"

	"github.com/oogwaybot/oogway"
)

// StatsService persists per-champion pick/ban/win counters.
type StatsService struct {
	db *DB
}

func NewStatsService(db *DB) *StatsService {
	return &StatsService{
		db: db,
	}
}

func (s *StatsService) RecordGame(ctx context.Context, game *oogway.Game) error {
	if !game.Completed() {
		return oogway.Errorf(oogway.EINVALID, "Cannot record a game without a winner.")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := recordGame(ctx, tx, game); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *StatsService) FindChampionStats(ctx context.Context, filter oogway.StatsFilter) ([]*oogway.ChampionStats, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	return findChampionStats(ctx, tx, filter)
}

// recordGame bumps the counters of every champion involved in the game.
// Winning side picks additionally count a win.
func recordGame(ctx context.Context, tx *Tx, game *oogway.Game) error {
	for _, side := range []oogway.Side{oogway.SideA, oogway.SideB} {
		won := game.Winner == side

		for _, id := range game.Picks(side) {
			wins := 0
			if won {
				wins = 1
			}
			if err := bumpChampion(ctx, tx, id, 1, 0, wins); err != nil {
				return err
			}
		}

		for _, id := range game.Bans(side) {
			if err := bumpChampion(ctx, tx, id, 0, 1, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// bumpChampion upserts a single champion's counter row.
func bumpChampion(ctx context.Context, tx *Tx, championID string, picks, bans, wins int) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO champion_stats (
			champion_id,
			picks,
			bans,
			wins,
			created_at,
			updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (champion_id) DO UPDATE SET
			picks = picks + excluded.picks,
			bans = bans + excluded.bans,
			wins = wins + excluded.wins,
			updated_at = excluded.updated_at
	`,
		championID,
		picks,
		bans,
		wins,
		(*NullTime)(&tx.now),
		(*NullTime)(&tx.now),
	); err != nil {
		return FormatError(err)
	}
	return nil
}

func findChampionStats(ctx context.Context, tx *Tx, filter oogway.StatsFilter) (_ []*oogway.ChampionStats, n int, err error) {
	// Build WHERE clause. Each part of the WHERE clause is AND-ed together.
	// Values are appended to an arg list to avoid SQL injection.
	where, args := []string{"1 = 1"}, []interface{}{}
	if v := filter.ChampionID; v != nil {
		where, args = append(where, "champion_id = ?"), append(args, *v)
	}

	// Execute query with limiting WHERE clause and LIMIT/OFFSET injected.
	// Champions with the highest draft presence come first.
	rows, err := tx.QueryContext(ctx, `
		SELECT
		    champion_id,
		    picks,
		    bans,
		    wins,
		    COUNT(*) OVER()
		FROM champion_stats
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY picks + bans DESC, champion_id ASC
		`+FormatLimitOffset(filter.Limit, filter.Offset),
		args...,
	)
	if err != nil {
		return nil, n, FormatError(err)
	}
	defer rows.Close()

	// Iterate over rows and deserialize into ChampionStats objects.
	stats := make([]*oogway.ChampionStats, 0)
	for rows.Next() {
		var cs oogway.ChampionStats
		if err := rows.Scan(
			&cs.ChampionID,
			&cs.Picks,
			&cs.Bans,
			&cs.Wins,
			&n,
		); err != nil {
			return nil, 0, err
		}
		stats = append(stats, &cs)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return stats, n, nil
}
