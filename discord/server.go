package discord

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/oogwaybot/oogway"
	"github.com/oogwaybot/oogway/champion"
	"github.com/oogwaybot/oogway/draft"
)

type Server struct {
	GuildID  string
	BotToken string
	Logger   *slog.Logger

	router handler.Router
	client bot.Client

	Registry   *oogway.SeriesRegistry
	Catalog    *champion.Catalog
	Controller *draft.Controller
	Stats      oogway.StatsService

	mu       sync.Mutex
	sessions map[snowflake.ID]*session
}

func NewServer() *Server {
	s := &Server{
		Logger:   slog.Default(),
		router:   handler.New(),
		sessions: make(map[snowflake.ID]*session),
	}

	// These routes can be issued anywhere.
	s.router.Group(func(r handler.Router) {
		r.Command("/draft", s.handleCommandDraft)
		r.Command("/meta", s.handleMeta)
	})

	// These routes only make sense inside an active draft thread.
	s.router.Group(func(r handler.Router) {
		r.Use(s.MustBeInDraft)
		r.Command("/cancel_draft", s.handleCancelDraft)
		r.Component("/win/{side}", s.handleWin)
		r.Component("/vote/{prompt}/{answer}", s.handleVote)
	})

	return s
}

func (s *Server) Open(ctx context.Context) (err error) {
	s.client, err = disgo.New(
		s.BotToken,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(gateway.IntentGuilds|gateway.IntentGuildMessages|gateway.IntentMessageContent)),
		bot.WithEventListeners(s.router, bot.NewListenerFunc(s.onMessage)),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagChannels|cache.FlagMembers|cache.FlagRoles),
		),
	)
	if err != nil {
		return err
	}

	guildID, err := snowflake.Parse(s.GuildID)
	if err != nil {
		return err
	}

	if err = handler.SyncCommands(s.client, commands, []snowflake.ID{guildID}); err != nil {
		return err
	}

	return s.client.OpenGateway(ctx)
}

func (s *Server) Close(ctx context.Context) error {
	// Abandon every in-flight draft before dropping the gateway.
	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.cancel()
	}
	s.sessions = make(map[snowflake.ID]*session)
	s.mu.Unlock()

	if s.client != nil {
		s.client.Close(ctx)
	}

	return nil
}

// session returns the draft session hosted by the given thread, if any.
func (s *Server) session(channelID snowflake.ID) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[channelID]
	return sess, ok
}

func (s *Server) addSession(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.threadID] = sess
}

func (s *Server) removeSession(channelID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, channelID)
}

// onMessage feeds captain messages to the draft session awaiting them and
// moderates draft threads: while a draft is running, only the captains may
// talk.
func (s *Server) onMessage(e *events.MessageCreate) {
	if e.Message.Author.Bot {
		return
	}

	sess, ok := s.session(e.ChannelID)
	if !ok {
		return
	}

	if !sess.isCaptain(e.Message.Author.ID) {
		if err := e.Client().Rest().DeleteMessage(e.ChannelID, e.MessageID); err != nil {
			s.Logger.Warn("could not moderate message", "channel", e.ChannelID, "error", err)
		}
		return
	}

	sess.deliver(e.Message.Author.ID, e.Message.Content)
}
