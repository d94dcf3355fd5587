package columnarstore

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// allowedColumnTypes is the closed set of column types tables can declare.
var allowedColumnTypes = map[string]bool{
	"String":   true,
	"Int32":    true,
	"Int64":    true,
	"UInt32":   true,
	"UInt64":   true,
	"Float32":  true,
	"Float64":  true,
	"Bool":     true,
	"Date":     true,
	"DateTime": true,
}

func (c *Connection) createTable(ctx context.Context, op adapter.Operation) (interface{}, error) {
	table, _ := op.StringParam("table")
	if !validIdentifier(table) {
		return nil, adapter.NewInvalidInputError(paradigm.Columnar, "table",
			"table must be a plain identifier")
	}

	rawColumns, ok := op.ListParam("columns")
	if !ok || len(rawColumns) == 0 {
		return nil, adapter.NewInvalidInputError(paradigm.Columnar, "columns",
			"at least one column is required")
	}

	defs := make([]string, 0, len(rawColumns))
	for i, raw := range rawColumns {
		def, ok := raw.(map[string]interface{})
		if !ok {
			return nil, adapter.NewInvalidInputError(paradigm.Columnar, "columns",
				fmt.Sprintf("column %d must be an object with name and type", i))
		}
		name, _ := def["name"].(string)
		colType, _ := def["type"].(string)
		if !validIdentifier(name) {
			return nil, adapter.NewInvalidInputError(paradigm.Columnar, "columns",
				fmt.Sprintf("column %d has an invalid name", i))
		}
		if !allowedColumnTypes[colType] {
			return nil, adapter.NewInvalidInputError(paradigm.Columnar, "columns",
				fmt.Sprintf("column '%s' has unsupported type '%s'", name, colType))
		}
		defs = append(defs, fmt.Sprintf("%s %s", name, colType))
	}

	sql := fmt.Sprintf("CREATE TABLE %s (%s) ENGINE = MergeTree() ORDER BY tuple()",
		table, strings.Join(defs, ", "))
	if err := c.client.Conn().Exec(ctx, sql); err != nil {
		return nil, adapter.WrapError(paradigm.Columnar, "createTable", err)
	}

	return map[string]interface{}{
		"table":   table,
		"columns": len(defs),
		"created": true,
	}, nil
}

// bulkInsert is all-or-nothing: every row is validated against the table
// schema before the batch is sent, so a malformed row means zero rows land.
func (c *Connection) bulkInsert(ctx context.Context, op adapter.Operation) (interface{}, error) {
	table, _ := op.StringParam("table")
	if !validIdentifier(table) {
		return nil, adapter.NewInvalidInputError(paradigm.Columnar, "table",
			"table must be a plain identifier")
	}

	rows, ok := op.ListParam("rows")
	if !ok || len(rows) == 0 {
		return nil, adapter.NewInvalidInputError(paradigm.Columnar, "rows",
			"at least one row is required")
	}

	schema, err := c.client.TableColumns(ctx, table)
	if err != nil {
		return nil, adapter.WrapError(paradigm.Columnar, "bulkInsert", err)
	}
	if len(schema) == 0 {
		return nil, adapter.NewNotFoundError(paradigm.Columnar, "table", table)
	}

	// Validate everything first; the batch is only prepared afterwards
	validated, err := validateRows(schema, rows)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(schema))
	for i, col := range schema {
		names[i] = col.Name
	}
	batch, err := c.client.Conn().PrepareBatch(ctx,
		fmt.Sprintf("INSERT INTO %s (%s)", table, strings.Join(names, ", ")))
	if err != nil {
		return nil, adapter.WrapError(paradigm.Columnar, "bulkInsert", err)
	}
	for _, values := range validated {
		if err := batch.Append(values...); err != nil {
			return nil, adapter.WrapError(paradigm.Columnar, "bulkInsert", err)
		}
	}
	if err := batch.Send(); err != nil {
		return nil, adapter.WrapError(paradigm.Columnar, "bulkInsert", err)
	}

	return map[string]interface{}{
		"table":    table,
		"inserted": len(validated),
	}, nil
}

// validateRows checks every row against the table schema and returns the
// values in schema order. The first malformed row aborts with its index, so a
// rejected batch lands zero rows.
func validateRows(schema []ColumnDef, rows []interface{}) ([][]interface{}, error) {
	known := make(map[string]bool, len(schema))
	for _, col := range schema {
		known[col.Name] = true
	}

	validated := make([][]interface{}, 0, len(rows))
	for i, raw := range rows {
		row, ok := raw.(map[string]interface{})
		if !ok {
			return nil, adapter.NewInvalidInputError(paradigm.Columnar, "rows",
				fmt.Sprintf("row %d is not an object", i))
		}
		for key := range row {
			if !known[key] {
				return nil, adapter.NewInvalidInputError(paradigm.Columnar, "rows",
					fmt.Sprintf("row %d has unknown column '%s'", i, key))
			}
		}
		values := make([]interface{}, len(schema))
		for j, col := range schema {
			value, present := row[col.Name]
			if !present {
				return nil, adapter.NewInvalidInputError(paradigm.Columnar, "rows",
					fmt.Sprintf("row %d is missing column '%s'", i, col.Name))
			}
			coerced, err := coerceValue(value, col.Type)
			if err != nil {
				return nil, adapter.NewInvalidInputError(paradigm.Columnar, "rows",
					fmt.Sprintf("row %d column '%s': %v", i, col.Name, err))
			}
			values[j] = coerced
		}
		validated = append(validated, values)
	}
	return validated, nil
}

func (c *Connection) query(ctx context.Context, op adapter.Operation) (interface{}, error) {
	raw, hasRaw := op.StringParam("raw")
	name, hasName := op.StringParam("name")

	var (
		sql     string
		args    []interface{}
		trusted bool
	)
	switch {
	case hasRaw && raw != "":
		// Raw statements run on the less-trusted path and are marked so
		sql, trusted = raw, false
	case hasName && name != "":
		params, _ := op.MapParam("params")
		var err error
		sql, args, err = buildNamedQuery(name, params)
		if err != nil {
			return nil, err
		}
		trusted = true
	default:
		return nil, adapter.NewInvalidInputError(paradigm.Columnar, "name",
			"either a named query or a raw statement is required")
	}

	rows, err := c.client.Conn().Query(ctx, sql, args...)
	if err != nil {
		return nil, adapter.WrapError(paradigm.Columnar, "query", err)
	}
	defer rows.Close()

	columns, data, err := scanRows(rows)
	if err != nil {
		return nil, adapter.WrapError(paradigm.Columnar, "query", err)
	}

	return map[string]interface{}{
		"columns": columns,
		"rows":    data,
		"count":   len(data),
		"trusted": trusted,
	}, nil
}

func (c *Connection) tableStats(ctx context.Context, op adapter.Operation) (interface{}, error) {
	table, _ := op.StringParam("table")
	if !validIdentifier(table) {
		return nil, adapter.NewInvalidInputError(paradigm.Columnar, "table",
			"table must be a plain identifier")
	}

	schema, err := c.client.TableColumns(ctx, table)
	if err != nil {
		return nil, adapter.WrapError(paradigm.Columnar, "tableStats", err)
	}
	if len(schema) == 0 {
		return nil, adapter.NewNotFoundError(paradigm.Columnar, "table", table)
	}

	var count uint64
	err = c.client.Conn().QueryRow(ctx, fmt.Sprintf("SELECT count() FROM %s", table)).Scan(&count)
	if err != nil {
		return nil, adapter.WrapError(paradigm.Columnar, "tableStats", err)
	}

	return map[string]interface{}{
		"table":   table,
		"rows":    count,
		"columns": schema,
	}, nil
}

// coerceValue converts a decoded JSON value into the Go type the ClickHouse
// column expects.
func coerceValue(value interface{}, colType string) (interface{}, error) {
	switch colType {
	case "String":
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("expected string, got %T", value)
	case "Int32", "Int64":
		var n int64
		switch v := value.(type) {
		case int:
			n = int64(v)
		case int64:
			n = v
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
			n = int64(v)
		default:
			return nil, fmt.Errorf("expected integer, got %T", value)
		}
		// The driver rejects mismatched integer widths on append
		if colType == "Int32" {
			if n < math.MinInt32 || n > math.MaxInt32 {
				return nil, fmt.Errorf("value %d overflows Int32", n)
			}
			return int32(n), nil
		}
		return n, nil
	case "UInt32", "UInt64":
		var n uint64
		switch v := value.(type) {
		case int:
			if v < 0 {
				return nil, fmt.Errorf("expected unsigned integer, got %d", v)
			}
			n = uint64(v)
		case uint64:
			n = v
		case float64:
			if v < 0 || v != float64(uint64(v)) {
				return nil, fmt.Errorf("expected unsigned integer, got %v", v)
			}
			n = uint64(v)
		default:
			return nil, fmt.Errorf("expected unsigned integer, got %T", value)
		}
		if colType == "UInt32" {
			if n > math.MaxUint32 {
				return nil, fmt.Errorf("value %d overflows UInt32", n)
			}
			return uint32(n), nil
		}
		return n, nil
	case "Float32", "Float64":
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		case int64:
			f = float64(v)
		default:
			return nil, fmt.Errorf("expected number, got %T", value)
		}
		if colType == "Float32" {
			return float32(f), nil
		}
		return f, nil
	case "Bool":
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("expected boolean, got %T", value)
	case "Date", "DateTime":
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, v); err == nil {
					return t, nil
				}
			}
			return nil, fmt.Errorf("unparseable time value %q", v)
		}
		return nil, fmt.Errorf("expected time value, got %T", value)
	}
	return nil, fmt.Errorf("unsupported column type %s", colType)
}
