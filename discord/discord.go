package discord

import (
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/oogwaybot/oogway"
)

type CreateFollowupMessager interface {
	CreateFollowupMessage(messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
	Client() bot.Client
}

func Error(event CreateFollowupMessager, err error) error {
	// Extract error code and message.
	code, message := oogway.ErrorCode(err), oogway.ErrorMessage(err)

	if code == oogway.EINTERNAL {
		event.Client().Logger().Error("Internal server error", "error", err)
	}

	// Print user message to response.
	_, err = event.CreateFollowupMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(messageEmbedError(message)).Build())
	return err
}

// messageEmbedError is a utility that builds an error embed.
func messageEmbedError(message string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle(":octagonal_sign: There was an error while handling your request.").
		SetColor(oogway.ColorRed).
		SetDescription(message).Build()
}

func messageEmbedSuccess(title string, description string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetColor(oogway.ColorGreen).
		SetDescription(description).
		Build()
}

func Respond(event CreateFollowupMessager, title string, description string) {
	_, _ = event.CreateFollowupMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(messageEmbedSuccess(title, description)).Build())
}
