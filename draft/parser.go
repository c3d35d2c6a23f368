package draft

import "strings"

// CommandKind tags what a captain's message asked for.
type CommandKind string

const (
	// KindPlain is a bare champion name with no leading verb.
	KindPlain CommandKind = "plain"
	KindBan   CommandKind = "ban"
	KindPick  CommandKind = "pick"
)

// Command is a parsed captain message.
type Command struct {
	Kind CommandKind

	// The champion text with any verb stripped.
	Name string
}

// verbs are matched case-insensitively against the start of a message.
// Longer prefixes come first so "/pick" is not consumed as a plain name.
var verbs = []struct {
	prefix string
	kind   CommandKind
}{
	{"/ban ", KindBan},
	{"/pick ", KindPick},
	{"ban ", KindBan},
	{"pick ", KindPick},
}

// ParseCommand splits an optional leading ban/pick verb (with or without a
// slash) off a captain message. Everything after the verb, or the whole
// message, is treated as the champion text.
func ParseCommand(raw string) Command {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)

	for _, v := range verbs {
		if strings.HasPrefix(lower, v.prefix) {
			name := strings.TrimSpace(trimmed[len(v.prefix):])
			if name != "" {
				return Command{Kind: v.kind, Name: name}
			}
		}
	}

	return Command{Kind: KindPlain, Name: trimmed}
}
