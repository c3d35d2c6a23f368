package discord

import "github.com/disgoorg/disgo/discord"

var (
	commands = []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        "draft",
			Description: "Start a draft series between two teams",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "captain_a",
					Description: "Captain of team A (blue side)",
					Required:    true,
				},
				discord.ApplicationCommandOptionUser{
					Name:        "captain_b",
					Description: "Captain of team B (red side)",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "best_of",
					Description: "Series length",
					Choices: []discord.ApplicationCommandOptionChoiceInt{
						{Name: "Bo1", Value: 1},
						{Name: "Bo3", Value: 3},
						{Name: "Bo5", Value: 5},
					},
				},
				discord.ApplicationCommandOptionString{
					Name:        "team_a",
					Description: "Mentions of the remaining team A players",
				},
				discord.ApplicationCommandOptionString{
					Name:        "team_b",
					Description: "Mentions of the remaining team B players",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        "cancel_draft",
			Description: "Abort the draft series running in this thread",
		},
		discord.SlashCommandCreate{
			Name:        "meta",
			Description: "Custom games meta: top picks/bans/presence/winrate",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "top",
					Description: "Size of each top list (1-25)",
				},
				discord.ApplicationCommandOptionInt{
					Name:        "min_picks",
					Description: "Minimum picks for the winrate list",
				},
			},
		},
	}
)
