package graphstore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

const maxHopCeiling = 10

// identifierPattern restricts labels and relationship types, which cannot be
// parameterized in Cypher and would otherwise be an injection path.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

func (c *Connection) createNode(ctx context.Context, op adapter.Operation) (interface{}, error) {
	label, _ := op.StringParam("label")
	if !validIdentifier(label) {
		return nil, adapter.NewInvalidInputError(paradigm.Graph, "label",
			"label must be a plain identifier")
	}

	props, _ := op.MapParam("properties")
	if props == nil {
		props = make(map[string]interface{})
	}
	nodeID, hasID := props["id"].(string)
	if !hasID || nodeID == "" {
		nodeID = uuid.New().String()
	}
	props["id"] = nodeID

	session := c.client.writeSession(ctx)
	defer session.Close(ctx)

	cypher := fmt.Sprintf("CREATE (n:%s) SET n = $props RETURN n.id AS id", label)
	result, err := session.Run(ctx, cypher, map[string]interface{}{"props": props})
	if err != nil {
		return nil, adapter.WrapError(paradigm.Graph, "createNode", err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return nil, adapter.WrapError(paradigm.Graph, "createNode", err)
	}

	return map[string]interface{}{
		"nodeId": nodeID,
		"label":  label,
	}, nil
}

func (c *Connection) createEdge(ctx context.Context, op adapter.Operation) (interface{}, error) {
	fromID, _ := op.StringParam("fromId")
	toID, _ := op.StringParam("toId")
	relation, _ := op.StringParam("relation")
	if !validIdentifier(relation) {
		return nil, adapter.NewInvalidInputError(paradigm.Graph, "relation",
			"relation must be a plain identifier")
	}

	props, _ := op.MapParam("properties")
	if props == nil {
		props = make(map[string]interface{})
	}

	session := c.client.writeSession(ctx)
	defer session.Close(ctx)

	// MATCH produces no row when either endpoint is missing, so an absent
	// result distinguishes not-found from success.
	cypher := fmt.Sprintf(
		"MATCH (a {id: $fromId}), (b {id: $toId}) CREATE (a)-[r:%s]->(b) SET r = $props RETURN 1 AS ok",
		relation)
	result, err := session.Run(ctx, cypher, map[string]interface{}{
		"fromId": fromID,
		"toId":   toID,
		"props":  props,
	})
	if err != nil {
		return nil, adapter.WrapError(paradigm.Graph, "createEdge", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, adapter.WrapError(paradigm.Graph, "createEdge", err)
		}
		return nil, adapter.NewNotFoundError(paradigm.Graph, "node",
			fmt.Sprintf("%s or %s", fromID, toID))
	}

	return map[string]interface{}{
		"fromId":   fromID,
		"toId":     toID,
		"relation": relation,
		"created":  true,
	}, nil
}

// neighbors returns the ids exactly maxHops away from the origin: anything
// reachable in fewer hops is excluded, as is the origin itself even when a
// cycle leads back to it.
func (c *Connection) neighbors(ctx context.Context, op adapter.Operation) (interface{}, error) {
	nodeID, _ := op.StringParam("nodeId")
	relation := op.StringOr("relation", "")
	maxHops := op.IntOr("maxHops", 1)

	if maxHops < 1 || maxHops > maxHopCeiling {
		return nil, adapter.NewInvalidInputError(paradigm.Graph, "maxHops",
			fmt.Sprintf("maxHops must be between 1 and %d", maxHopCeiling))
	}
	relPattern := ""
	if relation != "" {
		if !validIdentifier(relation) {
			return nil, adapter.NewInvalidInputError(paradigm.Graph, "relation",
				"relation must be a plain identifier")
		}
		relPattern = ":" + relation
	}

	session := c.client.readSession(ctx)
	defer session.Close(ctx)

	if err := c.requireNode(ctx, session, nodeID); err != nil {
		return nil, err
	}

	// min path length is the hop distance; keeping only ids whose distance
	// equals maxHops subtracts everything reachable in fewer hops.
	cypher := fmt.Sprintf(
		"MATCH p = (u {id: $id})-[%s*1..%d]->(m) WHERE m.id <> $id "+
			"RETURN m.id AS id, min(length(p)) AS dist",
		relPattern, maxHops)
	result, err := session.Run(ctx, cypher, map[string]interface{}{"id": nodeID})
	if err != nil {
		return nil, adapter.WrapError(paradigm.Graph, "neighbors", err)
	}

	reachable := make([]hopRecord, 0)
	for result.Next(ctx) {
		record := result.Record()
		id, _ := record.Get("id")
		dist, _ := record.Get("dist")
		s, okID := id.(string)
		hops, okDist := dist.(int64)
		if !okID || !okDist {
			continue
		}
		reachable = append(reachable, hopRecord{ID: s, Dist: hops})
	}
	if err := result.Err(); err != nil {
		return nil, adapter.WrapError(paradigm.Graph, "neighbors", err)
	}
	ids := exactHopIDs(reachable, maxHops)

	return map[string]interface{}{
		"nodeId":    nodeID,
		"maxHops":   maxHops,
		"neighbors": ids,
		"count":     len(ids),
	}, nil
}

// hopRecord pairs a node id with its minimum hop distance from the origin.
type hopRecord struct {
	ID   string
	Dist int64
}

// exactHopIDs keeps only the ids whose minimum distance equals hops. Anything
// reachable in fewer hops is dropped, so the result is the strict n-hop ring.
func exactHopIDs(reachable []hopRecord, hops int) []string {
	ids := make([]string, 0, len(reachable))
	for _, r := range reachable {
		if int(r.Dist) == hops {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func (c *Connection) shortestPath(ctx context.Context, op adapter.Operation) (interface{}, error) {
	fromID, _ := op.StringParam("fromId")
	toID, _ := op.StringParam("toId")

	session := c.client.readSession(ctx)
	defer session.Close(ctx)

	if err := c.requireNode(ctx, session, fromID); err != nil {
		return nil, err
	}
	if err := c.requireNode(ctx, session, toID); err != nil {
		return nil, err
	}

	cypher := "MATCH (a {id: $fromId}), (b {id: $toId}), p = shortestPath((a)-[*]-(b)) " +
		"RETURN [n IN nodes(p) | n.id] AS path, length(p) AS degrees"
	result, err := session.Run(ctx, cypher, map[string]interface{}{
		"fromId": fromID,
		"toId":   toID,
	})
	if err != nil {
		return nil, adapter.WrapError(paradigm.Graph, "shortestPath", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, adapter.WrapError(paradigm.Graph, "shortestPath", err)
		}
		return nil, adapter.NewNotFoundError(paradigm.Graph, "path",
			fmt.Sprintf("%s -> %s", fromID, toID))
	}

	record := result.Record()
	rawPath, _ := record.Get("path")
	degrees, _ := record.Get("degrees")

	path := make([]string, 0)
	if items, ok := rawPath.([]interface{}); ok {
		for _, item := range items {
			if s, ok := item.(string); ok {
				path = append(path, s)
			}
		}
	}

	return map[string]interface{}{
		"path":    path,
		"degrees": degrees,
	}, nil
}

// clear removes every node and relationship. Destructive and unconditional.
func (c *Connection) clear(ctx context.Context, op adapter.Operation) (interface{}, error) {
	session := c.client.writeSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	if err != nil {
		return nil, adapter.WrapError(paradigm.Graph, "clear", err)
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		return nil, adapter.WrapError(paradigm.Graph, "clear", err)
	}

	return map[string]interface{}{
		"cleared":      true,
		"nodesDeleted": summary.Counters().NodesDeleted(),
	}, nil
}

// requireNode fails with not-found when the id has no node.
func (c *Connection) requireNode(ctx context.Context, session neo4j.SessionWithContext, nodeID string) error {
	result, err := session.Run(ctx, "MATCH (n {id: $id}) RETURN 1 AS ok LIMIT 1",
		map[string]interface{}{"id": nodeID})
	if err != nil {
		return adapter.WrapError(paradigm.Graph, "lookup", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return adapter.WrapError(paradigm.Graph, "lookup", err)
		}
		return adapter.NewNotFoundError(paradigm.Graph, "node", nodeID)
	}
	return nil
}
