package draft_test

import (
	"testing"

	"github.com/oogwaybot/oogway"
	"github.com/oogwaybot/oogway/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder(t *testing.T) {
	require.Len(t, draft.Order, 20)

	t.Run("fixed side sequence", func(t *testing.T) {
		want := []oogway.Side{
			"A", "B", "A", "B", "A", "B",
			"A", "B", "B", "A", "A", "B",
			"B", "A", "B", "A",
			"B", "A", "A", "B",
		}
		for i, step := range draft.Order {
			assert.Equal(t, want[i], step.Side, "slot %d", i)
		}
	})

	t.Run("ban slots", func(t *testing.T) {
		banSlots := map[int]bool{
			0: true, 1: true, 2: true, 3: true, 4: true, 5: true,
			12: true, 13: true, 14: true, 15: true,
		}
		for i, step := range draft.Order {
			if banSlots[i] {
				assert.Equal(t, draft.ActionBan, step.Action, "slot %d", i)
			} else {
				assert.Equal(t, draft.ActionPick, step.Action, "slot %d", i)
			}
		}
	})

	t.Run("each side gets five bans and five picks", func(t *testing.T) {
		counts := map[oogway.Side]map[draft.Action]int{
			oogway.SideA: {},
			oogway.SideB: {},
		}
		for _, step := range draft.Order {
			counts[step.Side][step.Action]++
		}
		for _, side := range []oogway.Side{oogway.SideA, oogway.SideB} {
			assert.Equal(t, 5, counts[side][draft.ActionBan], "side %s bans", side)
			assert.Equal(t, 5, counts[side][draft.ActionPick], "side %s picks", side)
		}
	})
}
