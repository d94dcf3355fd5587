package columnarstore

import (
	"fmt"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// NamedQuery is a pre-registered analytics statement. The table name is
// validated and interpolated because identifiers cannot be bound; every other
// value is bound as a query argument.
type NamedQuery struct {
	Name     string
	Template string
	HasLimit bool
}

// namedQueries is the closed set of analytics queries executable by name.
var namedQueries = map[string]NamedQuery{
	"total-by-category": {
		Name: "total-by-category",
		Template: "SELECT category, sum(price * quantity) AS total FROM %s " +
			"GROUP BY category ORDER BY total DESC",
	},
	"total-by-region": {
		Name: "total-by-region",
		Template: "SELECT region, sum(price * quantity) AS total FROM %s " +
			"GROUP BY region ORDER BY total DESC",
	},
	"top-products": {
		Name: "top-products",
		Template: "SELECT product, sum(quantity) AS units FROM %s " +
			"GROUP BY product ORDER BY units DESC LIMIT ?",
		HasLimit: true,
	},
}

// NamedQueries lists the registered query names in no particular order.
func NamedQueries() []string {
	out := make([]string, 0, len(namedQueries))
	for name := range namedQueries {
		out = append(out, name)
	}
	return out
}

// buildNamedQuery resolves a named query against its parameters, returning
// the SQL text and bound arguments.
func buildNamedQuery(name string, params map[string]interface{}) (string, []interface{}, error) {
	nq, ok := namedQueries[name]
	if !ok {
		return "", nil, adapter.NewInvalidInputError(paradigm.Columnar, "name",
			fmt.Sprintf("unknown named query '%s'", name))
	}

	table, _ := params["table"].(string)
	if !validIdentifier(table) {
		return "", nil, adapter.NewInvalidInputError(paradigm.Columnar, "table",
			"named queries require a 'table' parameter naming a plain identifier")
	}

	sql := fmt.Sprintf(nq.Template, table)
	var args []interface{}
	if nq.HasLimit {
		limit := 10
		switch v := params["limit"].(type) {
		case int:
			limit = v
		case float64:
			limit = int(v)
		}
		if limit < 1 || limit > 1000 {
			return "", nil, adapter.NewInvalidInputError(paradigm.Columnar, "limit",
				"limit must be between 1 and 1000")
		}
		args = append(args, limit)
	}
	return sql, args, nil
}
