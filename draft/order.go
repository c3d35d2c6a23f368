// Package draft implements the turn-based champion draft protocol and the
// progression state machine for best-of-N series. It talks to Discord (or
// any other host) only through the Channel and Prompter interfaces.
package draft

import "github.com/oogwaybot/oogway"

// Action is what a turn slot asks the acting captain to do.
type Action string

const (
	ActionBan  Action = "ban"
	ActionPick Action = "pick"
)

// Step is one slot of the draft order.
type Step struct {
	Side   oogway.Side
	Action Action
}

// Order is the fixed competitive draft sequence: six alternating bans, six
// picks in snake pairs, four more bans, four more picks. It does not depend
// on team size.
var Order = [20]Step{
	// Ban phase 1
	{Side: oogway.SideA, Action: ActionBan},
	{Side: oogway.SideB, Action: ActionBan},
	{Side: oogway.SideA, Action: ActionBan},
	{Side: oogway.SideB, Action: ActionBan},
	{Side: oogway.SideA, Action: ActionBan},
	{Side: oogway.SideB, Action: ActionBan},
	// Pick phase 1
	{Side: oogway.SideA, Action: ActionPick},
	{Side: oogway.SideB, Action: ActionPick},
	{Side: oogway.SideB, Action: ActionPick},
	{Side: oogway.SideA, Action: ActionPick},
	{Side: oogway.SideA, Action: ActionPick},
	{Side: oogway.SideB, Action: ActionPick},
	// Ban phase 2
	{Side: oogway.SideB, Action: ActionBan},
	{Side: oogway.SideA, Action: ActionBan},
	{Side: oogway.SideB, Action: ActionBan},
	{Side: oogway.SideA, Action: ActionBan},
	// Pick phase 2
	{Side: oogway.SideB, Action: ActionPick},
	{Side: oogway.SideA, Action: ActionPick},
	{Side: oogway.SideA, Action: ActionPick},
	{Side: oogway.SideB, Action: ActionPick},
}
