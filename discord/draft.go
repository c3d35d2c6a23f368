package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/oogwaybot/oogway"
	"github.com/oogwaybot/oogway/draft"
)

const (
	promptContinue = "continue"
	promptBelle    = "belle"
	promptSide     = "side"
	promptReady    = "ready"

	continueTimeout = 60 * time.Second
	sideTimeout     = 60 * time.Second
	readyTimeout    = 120 * time.Second

	unknownTTL = 4 * time.Second
	takenTTL   = 3 * time.Second
)

func (s *Server) handleCommandDraft(event *handler.CommandEvent) error {
	data := event.SlashCommandInteractionData()

	if err := event.DeferCreateMessage(true); err != nil {
		return err
	}

	captainA := data.Snowflake("captain_a")
	captainB := data.Snowflake("captain_b")

	bestOf := 3
	if v, ok := data.OptInt("best_of"); ok {
		bestOf = v
	}

	teamA := []snowflake.ID{captainA}
	if v, ok := data.OptString("team_a"); ok {
		teamA = append(teamA, parseMentions(v)...)
	}
	teamB := []snowflake.ID{captainB}
	if v, ok := data.OptString("team_b"); ok {
		teamB = append(teamB, parseMentions(v)...)
	}

	series := oogway.NewSeries(0, bestOf, teamA, teamB, captainA, captainB)
	if err := series.Validate(); err != nil {
		return Error(event, err)
	}

	// The champion list must be warm before the first turn.
	if err := s.Catalog.Refresh(context.TODO(), false); err != nil {
		return Error(event, err)
	}

	thread, err := event.Client().Rest().CreateThread(event.Channel().ID(), discord.GuildPublicThreadCreate{
		Name:                "draft-" + series.ID,
		AutoArchiveDuration: discord.AutoArchiveDuration24h,
	})
	if err != nil {
		return Error(event, err)
	}
	series.ChannelID = thread.ID()

	sess := newSession(s, series)
	s.addSession(sess)
	go sess.run()

	Respond(event, "Draft started",
		fmt.Sprintf("Series `%s` (Bo%d) lives in <#%d>. Good luck, %s and %s!",
			series.ID, series.BestOf, thread.ID(), mention(captainA), mention(captainB)))
	return nil
}

func (s *Server) handleCancelDraft(event *handler.CommandEvent) error {
	sess, ok := s.session(event.Channel().ID())
	if !ok {
		return nil
	}

	if !sess.isCaptain(event.User().ID) &&
		!event.Member().Permissions.Has(discord.PermissionAdministrator) {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("Only the captains can cancel this draft.").
			SetEphemeral(true).Build())
	}

	s.Registry.Remove(sess.threadID)
	s.removeSession(sess.threadID)
	sess.cancel()

	s.Logger.Info("series cancelled", "series", sess.series.ID, "by", event.User().ID)

	return event.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(messageEmbedSuccess("Draft cancelled",
			fmt.Sprintf("Series `%s` was abandoned.", sess.series.ID))).
		Build())
}

func (s *Server) handleWin(event *handler.ComponentEvent) error {
	sess, ok := s.session(event.Channel().ID())
	if !ok {
		return nil
	}

	if !sess.isCaptain(event.User().ID) {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("Only the captains can report the result.").
			SetEphemeral(true).Build())
	}

	if !sess.takeReport() {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("No result is expected right now.").
			SetEphemeral(true).Build())
	}

	decision, err := s.Controller.Report(context.TODO(), sess.threadID, oogway.Side(event.Variables["side"]))
	if err != nil {
		sess.allowReport()
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetEmbeds(messageEmbedError(oogway.ErrorMessage(err))).
			SetEphemeral(true).Build())
	}

	// Disarm the buttons so the result cannot be reported twice.
	if err := event.UpdateMessage(discord.NewMessageUpdateBuilder().
		ClearContainerComponents().Build()); err != nil {
		s.Logger.Warn("could not disarm result buttons", "series", sess.series.ID, "error", err)
	}

	go sess.advance(decision)
	return nil
}

func (s *Server) handleVote(event *handler.ComponentEvent) error {
	sess, ok := s.session(event.Channel().ID())
	if !ok {
		return nil
	}

	if !sess.castVote(event.Variables["prompt"], event.User().ID, event.Variables["answer"] == "yes") {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("This vote is not yours to cast.").
			SetEphemeral(true).Build())
	}

	return event.DeferUpdateMessage()
}

// session binds one running series to its draft thread. It implements
// draft.Channel and draft.Prompter on top of the gateway: captain messages
// and button presses arrive on handler goroutines and are forwarded to the
// draft goroutine through channels.
type session struct {
	server   *Server
	series   *oogway.Series
	threadID snowflake.ID

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	waiter         *messageWaiter
	vote           *pendingVote
	awaitingReport bool
}

type messageWaiter struct {
	from snowflake.ID
	ch   chan string
}

type pendingVote struct {
	prompt  string
	allowed map[snowflake.ID]bool
	voted   map[snowflake.ID]bool
	need    int
	ch      chan bool
}

func newSession(server *Server, series *oogway.Series) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		server:   server,
		series:   series,
		threadID: series.ChannelID,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// run drafts the first game. It returns once the game recap is posted; the
// session then stays registered, waiting for the result buttons.
func (sess *session) run() {
	if err := sess.server.Controller.Start(sess.ctx, sess, sess.series); err != nil {
		sess.abort(err)
	}
}

// advance carries the series through votes, side choice and the next draft
// after a reported result. Runs on its own goroutine per report.
func (sess *session) advance(decision draft.Decision) {
	if err := sess.server.Controller.Advance(sess.ctx, sess, sess, sess.series, decision); err != nil {
		sess.abort(err)
		return
	}

	// A finalized series has left the registry; drop the session with it.
	if !sess.server.Registry.Contains(sess.threadID) {
		sess.server.removeSession(sess.threadID)
		sess.cancel()
	}
}

// abort tears the session down after an unrecoverable failure. Cancellation
// is not a failure: /cancel_draft already cleaned up.
func (sess *session) abort(err error) {
	if errors.Is(err, context.Canceled) ||
		(oogway.ErrorCode(err) == oogway.ENOTFOUND && !sess.server.Registry.Contains(sess.threadID)) {
		return
	}

	sess.server.Logger.Error("draft session failed", "series", sess.series.ID, "error", err)

	_, _ = sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetEmbeds(messageEmbedError(oogway.ErrorMessage(err))).Build())

	sess.server.Registry.Remove(sess.threadID)
	sess.server.removeSession(sess.threadID)
	sess.cancel()
}

func (sess *session) rest() rest.Rest {
	return sess.server.client.Rest()
}

func (sess *session) isCaptain(id snowflake.ID) bool {
	return id == sess.series.CaptainA || id == sess.series.CaptainB
}

func (sess *session) captains() map[snowflake.ID]bool {
	return map[snowflake.ID]bool{
		sess.series.CaptainA: true,
		sess.series.CaptainB: true,
	}
}

// deliver hands a captain message to the goroutine awaiting it. Messages
// nobody waits for are dropped.
func (sess *session) deliver(author snowflake.ID, content string) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	w := sess.waiter
	if w == nil || w.from != author {
		return
	}

	select {
	case w.ch <- content:
		sess.waiter = nil
	default:
	}
}

func (sess *session) AwaitMessage(ctx context.Context, from snowflake.ID) (string, error) {
	ch := make(chan string, 1)

	sess.mu.Lock()
	sess.waiter = &messageWaiter{from: from, ch: ch}
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.waiter = nil
		sess.mu.Unlock()
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case content := <-ch:
		return content, nil
	}
}

// takeReport atomically claims the pending result report.
func (sess *session) takeReport() bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.awaitingReport {
		return false
	}
	sess.awaitingReport = false
	return true
}

func (sess *session) allowReport() {
	sess.mu.Lock()
	sess.awaitingReport = true
	sess.mu.Unlock()
}

// registerVote arms a vote before its message is posted, so a press can
// never race the registration.
func (sess *session) registerVote(prompt string, allowed map[snowflake.ID]bool, need int) chan bool {
	ch := make(chan bool, 1)
	sess.mu.Lock()
	sess.vote = &pendingVote{
		prompt:  prompt,
		allowed: allowed,
		voted:   make(map[snowflake.ID]bool),
		need:    need,
		ch:      ch,
	}
	sess.mu.Unlock()
	return ch
}

func (sess *session) clearVote() {
	sess.mu.Lock()
	sess.vote = nil
	sess.mu.Unlock()
}

// castVote records a button press. Returns false when the press is stale or
// the presser has no say in this vote.
func (sess *session) castVote(prompt string, user snowflake.ID, answer bool) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	v := sess.vote
	if v == nil || v.prompt != prompt || !v.allowed[user] {
		return false
	}

	// Multi-party votes (the ready check) resolve once everyone agreed.
	if v.need > 1 {
		if !answer || v.voted[user] {
			return true
		}
		v.voted[user] = true
		if len(v.voted) < v.need {
			return true
		}
		answer = true
	}

	select {
	case v.ch <- answer:
	default:
	}
	sess.vote = nil
	return true
}

func (sess *session) waitVote(ctx context.Context, ch chan bool, timeout time.Duration, fallback bool) (bool, error) {
	defer sess.clearVote()

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case answer := <-ch:
		return answer, nil
	case <-t.C:
		return fallback, nil
	}
}

func (sess *session) OfferContinue(ctx context.Context, series *oogway.Series, nextBestOf int, tied bool) (bool, error) {
	prompt := promptContinue
	title := fmt.Sprintf("Extend to a Bo%d?", nextBestOf)
	desc := fmt.Sprintf("Team %s leads %d-%d. Keep the series going?",
		series.Leader(), series.ScoreA, series.ScoreB)
	yes := fmt.Sprintf("Yes, Bo%d!", nextBestOf)
	if tied {
		prompt = promptBelle
		title = "Play a belle?"
		desc = fmt.Sprintf("It is %d-%d. Break the tie with one more game?", series.ScoreA, series.ScoreB)
		yes = "Yes, belle!"
	}

	ch := sess.registerVote(prompt, sess.captains(), 1)
	if _, err := sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetContentf("%s %s", mention(series.CaptainA), mention(series.CaptainB)).
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle(title).
			SetColor(oogway.ColorBlurple).
			SetDescription(desc).
			Build()).
		AddActionRow(
			discord.NewSuccessButton(yes, "vote/"+prompt+"/yes"),
			discord.NewDangerButton("Stop here", "vote/"+prompt+"/no"),
		).Build()); err != nil {
		sess.clearVote()
		return false, err
	}

	return sess.waitVote(ctx, ch, continueTimeout, false)
}

func (sess *session) OfferSideChoice(ctx context.Context, series *oogway.Series, loser snowflake.ID) (bool, error) {
	ch := sess.registerVote(promptSide, map[snowflake.ID]bool{loser: true}, 1)
	if _, err := sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetContentf("%s you lost this one, so you choose the sides for the next game.", mention(loser)).
		AddActionRow(
			discord.NewPrimaryButton("Swap sides", "vote/"+promptSide+"/yes"),
			discord.NewSecondaryButton("Keep sides", "vote/"+promptSide+"/no"),
		).Build()); err != nil {
		sess.clearVote()
		return false, err
	}

	return sess.waitVote(ctx, ch, sideTimeout, false)
}

func (sess *session) ReadyCheck(ctx context.Context, series *oogway.Series) error {
	ch := sess.registerVote(promptReady, sess.captains(), 2)
	if _, err := sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetContentf("%s %s press when you are ready for the next game.",
			mention(series.CaptainA), mention(series.CaptainB)).
		AddActionRow(
			discord.NewSuccessButton("Ready", "vote/"+promptReady+"/yes"),
		).Build()); err != nil {
		sess.clearVote()
		return err
	}

	// The draft starts anyway once the window closes.
	_, err := sess.waitVote(ctx, ch, readyTimeout, true)
	return err
}

func (sess *session) AnnounceTurn(ctx context.Context, series *oogway.Series, turn int) error {
	step := draft.Order[turn]
	verb := "pick"
	if step.Action == draft.ActionBan {
		verb = "ban"
	}

	_, err := sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetContentf("%s your turn to **%s** (slot %d/%d). Type `ban <name>`, `pick <name>` or just the champion name.",
			mention(series.Captain(step.Side)), verb, turn+1, len(draft.Order)).
		SetEmbeds(sess.boardEmbed(series, turn)).
		Build())
	return err
}

func (sess *session) AnnounceFallback(ctx context.Context, series *oogway.Series, turn int, championID string) error {
	_, err := sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetContentf("⏰ Time's up! **%s** was selected at random.", sess.server.Catalog.DisplayName(championID)).
		Build())
	return err
}

func (sess *session) AnnounceFearless(ctx context.Context, series *oogway.Series) error {
	_, err := sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle("Fearless pool").
			SetColor(oogway.ColorYellow).
			SetDescriptionf("Picked earlier in the series, locked for this game:\n%s",
				sess.championList(series.FearlessChampions())).
			Build()).
		Build())
	return err
}

func (sess *session) AnnounceRecap(ctx context.Context, series *oogway.Series) error {
	sess.allowReport()

	g := series.CurrentGame()
	embed := discord.NewEmbedBuilder().
		SetTitlef("Game %d draft complete", len(series.Games)).
		SetColor(oogway.ColorGreen).
		SetFooterTextf("Series %s • Bo%d • score %d-%d", series.ID, series.BestOf, series.ScoreA, series.ScoreB).
		AddField("Blue (A) picks", sess.championList(g.Picks(oogway.SideA)), true).
		AddField("Red (B) picks", sess.championList(g.Picks(oogway.SideB)), true).
		AddField("Bans", sess.championList(append(g.Bans(oogway.SideA), g.Bans(oogway.SideB)...)), false).
		Build()

	_, err := sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetContentf("%s %s play the game, then report the result below.",
			mention(series.CaptainA), mention(series.CaptainB)).
		SetEmbeds(embed).
		AddActionRow(
			discord.NewPrimaryButton("Blue side (A) won", "win/A"),
			discord.NewDangerButton("Red side (B) won", "win/B"),
		).Build())
	return err
}

func (sess *session) AnnounceSeriesEnd(ctx context.Context, series *oogway.Series, winner oogway.Side) error {
	var embed discord.Embed
	if winner == "" {
		embed = discord.NewEmbedBuilder().
			SetTitle("Series over").
			SetColor(oogway.ColorYellow).
			SetDescriptionf("The series ends tied %d-%d. Well played, everyone!", series.ScoreA, series.ScoreB).
			Build()
	} else {
		embed = discord.NewEmbedBuilder().
			SetTitlef("Team %s takes the series!", winner).
			SetColor(oogway.ColorGreen).
			SetDescriptionf("%s! %s wins %d-%d.",
				cheer(), mention(series.Captain(winner)), max(series.ScoreA, series.ScoreB), min(series.ScoreA, series.ScoreB)).
			Build()
	}

	_, err := sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetEmbeds(embed).Build())
	return err
}

func (sess *session) NotifyUnknown(ctx context.Context, to snowflake.ID, input string, suggestions []string) error {
	tip := ""
	if len(suggestions) > 0 {
		names := make([]string, len(suggestions))
		for i, id := range suggestions {
			names[i] = sess.server.Catalog.DisplayName(id)
		}
		tip = " Did you mean: " + strings.Join(names, ", ") + "?"
	}

	msg, err := sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetContentf("❓ Unknown champion: **%s**.%s", input, tip).
		Build())
	if err != nil {
		return err
	}
	sess.server.deleteAfter(sess.threadID, msg.ID, unknownTTL)
	return nil
}

func (sess *session) NotifyTaken(ctx context.Context, to snowflake.ID, championID string) error {
	msg, err := sess.rest().CreateMessage(sess.threadID, discord.NewMessageCreateBuilder().
		SetContentf("⚠️ **%s** is already taken or locked.", sess.server.Catalog.DisplayName(championID)).
		Build())
	if err != nil {
		return err
	}
	sess.server.deleteAfter(sess.threadID, msg.ID, takenTTL)
	return nil
}

func (sess *session) boardEmbed(series *oogway.Series, turn int) discord.Embed {
	g := series.CurrentGame()
	return discord.NewEmbedBuilder().
		SetTitlef("Game %d of a Bo%d", len(series.Games), series.BestOf).
		SetColor(oogway.ColorBlurple).
		SetFooterTextf("Series %s • score %d-%d", series.ID, series.ScoreA, series.ScoreB).
		AddField("Blue (A) bans", sess.championList(g.Bans(oogway.SideA)), true).
		AddField("Red (B) bans", sess.championList(g.Bans(oogway.SideB)), true).
		AddField("Blue (A) picks", sess.championList(g.Picks(oogway.SideA)), true).
		AddField("Red (B) picks", sess.championList(g.Picks(oogway.SideB)), true).
		Build()
}

// championList renders champion ids as display names, one per line.
func (sess *session) championList(ids []string) string {
	if len(ids) == 0 {
		return "—"
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = sess.server.Catalog.DisplayName(id)
	}
	return strings.Join(names, "\n")
}
