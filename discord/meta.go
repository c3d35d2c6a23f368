package discord

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/oogwaybot/oogway"
)

func (s *Server) handleMeta(event *handler.CommandEvent) error {
	data := event.SlashCommandInteractionData()

	top := 10
	if v, ok := data.OptInt("top"); ok {
		top = v
	}
	if top < 1 {
		top = 1
	} else if top > 25 {
		top = 25
	}

	minPicks := 10
	if v, ok := data.OptInt("min_picks"); ok && v > 0 {
		minPicks = v
	}

	if err := event.DeferCreateMessage(false); err != nil {
		return err
	}

	stats, n, err := s.Stats.FindChampionStats(context.TODO(), oogway.StatsFilter{})
	if err != nil {
		return Error(event, err)
	}
	if n == 0 {
		Respond(event, "No games recorded yet", "Play some customs first!")
		return nil
	}

	// FindChampionStats already orders by presence.
	presence := stats
	if len(presence) > top {
		presence = presence[:top]
	}

	picks := topBy(stats, top, func(cs *oogway.ChampionStats) int { return cs.Picks })
	bans := topBy(stats, top, func(cs *oogway.ChampionStats) int { return cs.Bans })

	// The winrate list only considers champions with a meaningful sample.
	var picked []*oogway.ChampionStats
	for _, cs := range stats {
		if cs.Picks >= minPicks {
			picked = append(picked, cs)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool { return picked[i].Winrate() > picked[j].Winrate() })
	if len(picked) > top {
		picked = picked[:top]
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Custom games meta").
		SetColor(oogway.ColorNotQuiteBlack).
		SetFooterTextf("%d champions tracked", n).
		AddField("Top presence", s.formatRows(presence, func(cs *oogway.ChampionStats) string {
			return fmt.Sprintf("%d (picks %d / bans %d)", cs.Presence(), cs.Picks, cs.Bans)
		}), false).
		AddField("Top picks", s.formatRows(picks, func(cs *oogway.ChampionStats) string {
			return fmt.Sprintf("%d", cs.Picks)
		}), true).
		AddField("Top bans", s.formatRows(bans, func(cs *oogway.ChampionStats) string {
			return fmt.Sprintf("%d", cs.Bans)
		}), true).
		AddField(fmt.Sprintf("Best winrates (min %d picks)", minPicks), s.formatRows(picked, func(cs *oogway.ChampionStats) string {
			return fmt.Sprintf("%.1f%% over %d picks", cs.Winrate(), cs.Picks)
		}), false).
		Build()

	_, err = event.CreateFollowupMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(embed).Build())
	return err
}

// topBy returns the top n stats rows by the given counter, highest first.
func topBy(stats []*oogway.ChampionStats, n int, counter func(*oogway.ChampionStats) int) []*oogway.ChampionStats {
	sorted := make([]*oogway.ChampionStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool { return counter(sorted[i]) > counter(sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// formatRows renders ranked stats rows for an embed field.
func (s *Server) formatRows(stats []*oogway.ChampionStats, value func(*oogway.ChampionStats) string) string {
	if len(stats) == 0 {
		return "—"
	}

	rows := make([]string, len(stats))
	for i, cs := range stats {
		rows[i] = fmt.Sprintf("%s **%s** — %s", oogway.Itoe(i+1), s.Catalog.DisplayName(cs.ChampionID), value(cs))
	}
	return strings.Join(rows, "\n")
}
