package graphstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
)

func TestValidIdentifier(t *testing.T) {
	assert.True(t, validIdentifier("Customer"))
	assert.True(t, validIdentifier("FOLLOWS"))
	assert.True(t, validIdentifier("_internal"))
	assert.False(t, validIdentifier(""))
	assert.False(t, validIdentifier("1Customer"))
	assert.False(t, validIdentifier("Customer) DETACH DELETE (n"))
	assert.False(t, validIdentifier("has space"))
}

func TestCreateNodeRejectsBadLabel(t *testing.T) {
	c := &Connection{connected: 1}

	for _, label := range []string{"", "Bad Label", "X; MATCH (n) DETACH DELETE n"} {
		_, err := c.createNode(context.Background(), adapter.Operation{Params: map[string]interface{}{
			"label": label,
		}})
		assert.ErrorIs(t, err, adapter.ErrInvalidInput, "label=%q", label)
	}
}

func TestCreateEdgeRejectsBadRelation(t *testing.T) {
	c := &Connection{connected: 1}

	_, err := c.createEdge(context.Background(), adapter.Operation{Params: map[string]interface{}{
		"fromId":   "u-1",
		"toId":     "u-2",
		"relation": "FOLLOWS]->(x) MATCH (n",
	}})
	assert.ErrorIs(t, err, adapter.ErrInvalidInput)
}

func TestNeighborsRejectsBadHops(t *testing.T) {
	c := &Connection{connected: 1}

	for _, hops := range []int{0, -3, maxHopCeiling + 1} {
		_, err := c.neighbors(context.Background(), adapter.Operation{Params: map[string]interface{}{
			"nodeId":  "u-1",
			"maxHops": hops,
		}})
		assert.ErrorIs(t, err, adapter.ErrInvalidInput, "maxHops=%d", hops)
	}
}

func TestNeighborsRejectsBadRelation(t *testing.T) {
	c := &Connection{connected: 1}

	_, err := c.neighbors(context.Background(), adapter.Operation{Params: map[string]interface{}{
		"nodeId":   "u-1",
		"relation": "*]->() MATCH (n",
	}})
	assert.ErrorIs(t, err, adapter.ErrInvalidInput)
}

func TestExactHopIDs(t *testing.T) {
	// Chain u-1 -> u-2 -> u-3: the two-hop ring holds u-3 only, the
	// one-hop neighbor is excluded
	chain := []hopRecord{
		{ID: "u-2", Dist: 1},
		{ID: "u-3", Dist: 2},
	}

	assert.Equal(t, []string{"u-3"}, exactHopIDs(chain, 2))
	assert.Equal(t, []string{"u-2"}, exactHopIDs(chain, 1))

	t.Run("shortcut beats longer path", func(t *testing.T) {
		// A node with both a 1-hop and a 2-hop route carries its minimum
		// distance, so it never shows up in the 2-hop ring
		reachable := []hopRecord{
			{ID: "u-2", Dist: 1},
			{ID: "u-4", Dist: 1},
			{ID: "u-3", Dist: 2},
		}
		assert.Equal(t, []string{"u-3"}, exactHopIDs(reachable, 2))
	})

	t.Run("nothing at that distance", func(t *testing.T) {
		assert.Empty(t, exactHopIDs(chain, 3))
	})
}

func TestExecuteRejectsClosedConnection(t *testing.T) {
	c := &Connection{connected: 0}

	_, err := c.Execute(context.Background(), adapter.Operation{Kind: "clear"})
	assert.ErrorIs(t, err, adapter.ErrConnectionClosed)
}

func TestExecuteRejectsUnknownKind(t *testing.T) {
	c := &Connection{connected: 1}

	_, err := c.Execute(context.Background(), adapter.Operation{Kind: "teleport"})
	assert.ErrorIs(t, err, adapter.ErrOperationNotSupported)
}
