package draft_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/oogwaybot/oogway"
	"github.com/oogwaybot/oogway/draft"
)

const (
	captainA = snowflake.ID(100)
	captainB = snowflake.ID(200)
)

// fakeCatalog resolves exact (case-insensitive) ids only and picks the
// first legal champion as its "random" choice, so tests stay deterministic.
type fakeCatalog struct {
	ids []string
}

func newFakeCatalog(n int) *fakeCatalog {
	c := &fakeCatalog{}
	for i := 1; i <= n; i++ {
		c.ids = append(c.ids, fmt.Sprintf("Champ%02d", i))
	}
	return c
}

func (c *fakeCatalog) Resolve(text string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(text))
	for _, id := range c.ids {
		if strings.ToLower(id) == key {
			return id, true
		}
	}
	return "", false
}

func (c *fakeCatalog) Suggest(text string, limit int) []string {
	out := make([]string, 0, limit)
	for _, id := range c.ids {
		if len(out) == limit {
			break
		}
		if strings.HasPrefix(strings.ToLower(id), strings.ToLower(text)) {
			out = append(out, id)
		}
	}
	return out
}

func (c *fakeCatalog) Random(exclude func(id string) bool) (string, bool) {
	for _, id := range c.ids {
		if exclude == nil || !exclude(id) {
			return id, true
		}
	}
	return "", false
}

// fakeChannel scripts captain input and records everything the core
// announces. AwaitMessage blocks until input is queued or ctx expires.
type fakeChannel struct {
	mu    sync.Mutex
	inbox map[snowflake.ID][]string

	turns     int
	fallbacks []string
	unknowns  [][]string
	takens    []string
	fearless  int
	recaps    int
	ends      []oogway.Side

	announceErr error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{inbox: make(map[snowflake.ID][]string)}
}

func (c *fakeChannel) push(from snowflake.ID, msgs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inbox[from] = append(c.inbox[from], msgs...)
}

func (c *fakeChannel) AnnounceTurn(ctx context.Context, series *oogway.Series, turn int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns++
	return c.announceErr
}

func (c *fakeChannel) AnnounceFallback(ctx context.Context, series *oogway.Series, turn int, championID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallbacks = append(c.fallbacks, championID)
	return nil
}

func (c *fakeChannel) AnnounceFearless(ctx context.Context, series *oogway.Series) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fearless++
	return nil
}

func (c *fakeChannel) AnnounceRecap(ctx context.Context, series *oogway.Series) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recaps++
	return nil
}

func (c *fakeChannel) AnnounceSeriesEnd(ctx context.Context, series *oogway.Series, winner oogway.Side) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ends = append(c.ends, winner)
	return nil
}

func (c *fakeChannel) AwaitMessage(ctx context.Context, from snowflake.ID) (string, error) {
	c.mu.Lock()
	queue := c.inbox[from]
	if len(queue) > 0 {
		msg := queue[0]
		c.inbox[from] = queue[1:]
		c.mu.Unlock()
		return msg, nil
	}
	c.mu.Unlock()

	<-ctx.Done()
	return "", ctx.Err()
}

func (c *fakeChannel) NotifyUnknown(ctx context.Context, to snowflake.ID, input string, suggestions []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unknowns = append(c.unknowns, suggestions)
	return nil
}

func (c *fakeChannel) NotifyTaken(ctx context.Context, to snowflake.ID, championID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.takens = append(c.takens, championID)
	return nil
}

// fakePrompter answers votes from pre-seeded queues; empty queues answer
// the timeout default (decline, keep sides).
type fakePrompter struct {
	continueAnswers []bool
	swapAnswers     []bool

	offers  int
	swaps   int
	readies int
}

func (p *fakePrompter) OfferContinue(ctx context.Context, series *oogway.Series, nextBestOf int, tied bool) (bool, error) {
	p.offers++
	if len(p.continueAnswers) == 0 {
		return false, nil
	}
	answer := p.continueAnswers[0]
	p.continueAnswers = p.continueAnswers[1:]
	return answer, nil
}

func (p *fakePrompter) OfferSideChoice(ctx context.Context, series *oogway.Series, loser snowflake.ID) (bool, error) {
	p.swaps++
	if len(p.swapAnswers) == 0 {
		return false, nil
	}
	answer := p.swapAnswers[0]
	p.swapAnswers = p.swapAnswers[1:]
	return answer, nil
}

func (p *fakePrompter) ReadyCheck(ctx context.Context, series *oogway.Series) error {
	p.readies++
	return nil
}

// fakeStats records games handed to the sink.
type fakeStats struct {
	games []*oogway.Game
	err   error
}

func (s *fakeStats) RecordGame(ctx context.Context, game *oogway.Game) error {
	s.games = append(s.games, game)
	return s.err
}

func (s *fakeStats) FindChampionStats(ctx context.Context, filter oogway.StatsFilter) ([]*oogway.ChampionStats, int, error) {
	return nil, 0, nil
}

// newTestSeries builds a two-player series with real captains on both
// sides, so the full turn timeout applies.
func newTestSeries(channelID snowflake.ID, bestOf int) *oogway.Series {
	return oogway.NewSeries(channelID, bestOf,
		[]snowflake.ID{captainA}, []snowflake.ID{captainB},
		captainA, captainB)
}

// newSoloSeries builds a series with a single real participant, which
// fast-forwards every turn.
func newSoloSeries(channelID snowflake.ID, bestOf int) *oogway.Series {
	return oogway.NewSeries(channelID, bestOf,
		[]snowflake.ID{captainA}, []snowflake.ID{0},
		captainA, 0)
}

func newTestEngine(catalog draft.Catalog, registry *oogway.SeriesRegistry) *draft.Engine {
	e := draft.NewEngine(catalog, registry)
	e.TurnTimeout = 25 * time.Millisecond
	e.SoloTurnTimeout = time.Millisecond
	return e
}
