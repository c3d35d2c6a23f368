package discord

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

var mentionRegexp = regexp.MustCompile(`<@!?(\d+)>`)

func mention(id snowflake.ID) string {
	return fmt.Sprintf("<@%d>", id)
}

// parseMentions extracts every user mention from free text, in order.
func parseMentions(text string) []snowflake.ID {
	var ids []snowflake.ID
	for _, m := range mentionRegexp.FindAllStringSubmatch(text, -1) {
		id, err := snowflake.Parse(m[1])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// deleteAfter removes a bot message once its feedback value has expired.
func (s *Server) deleteAfter(channelID, messageID snowflake.ID, ttl time.Duration) {
	time.AfterFunc(ttl, func() {
		if err := s.client.Rest().DeleteMessage(channelID, messageID); err != nil {
			s.Logger.Debug("could not expire message", "channel", channelID, "error", err)
		}
	})
}

// cheer() is a simple function that returns a random cheer phrase.
func cheer() string {
	cheers := []string{
		"Hooray",
		"Woo-hoo",
		"Cheers",
		"Yippee",
		"Yay",
		"Let's go",
		"Hip, hip, hooray",
		"Fantastic",
		"Celebrate",
		"Party time",
	}

	return cheers[rand.Intn(len(cheers))]
}
