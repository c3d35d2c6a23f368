package discord

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/handler"
)

// MustBeInDraft restricts a route to channels that host an active draft.
func (s *Server) MustBeInDraft(next handler.Handler) handler.Handler {
	return func(e *events.InteractionCreate) error {
		if _, ok := s.session(e.Channel().ID()); !ok {
			return e.Respond(discord.InteractionResponseTypeCreateMessage,
				discord.NewMessageCreateBuilder().
					SetContent("There is no draft running in this channel.").
					SetEphemeral(true).Build())
		}

		return next(e)
	}
}
