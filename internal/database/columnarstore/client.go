// Package columnarstore implements the columnar paradigm over ClickHouse.
package columnarstore

import (
	"context"
	"crypto/tls"
	"fmt"
	"reflect"
	"regexp"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

const defaultDatabase = "default"

// identifierPattern restricts table and column names, which cannot be
// parameterized in SQL and would otherwise be an injection path.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Client wraps the pooled ClickHouse connection.
type Client struct {
	conn     chdriver.Conn
	database string
}

// NewClient opens a pooled ClickHouse connection and verifies it.
func NewClient(ctx context.Context, cfg adapter.ConnectionConfig) (*Client, error) {
	port := cfg.Port
	if port == 0 {
		port = paradigm.MustGet(paradigm.Columnar).DefaultPort
	}
	database := cfg.DatabaseName
	if database == "" {
		database = defaultDatabase
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, port)},
		Auth: clickhouse.Auth{
			Database: database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     time.Second * 10,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	}
	if cfg.SSL {
		options.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("error connecting to columnar database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error testing columnar connection: %w", err)
	}

	return &Client{conn: conn, database: database}, nil
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close shuts down the connection pool.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Conn returns the underlying ClickHouse connection.
func (c *Client) Conn() chdriver.Conn {
	return c.conn
}

// TableColumns returns the declared schema of a table in definition order.
func (c *Client) TableColumns(ctx context.Context, table string) ([]ColumnDef, error) {
	rows, err := c.conn.Query(ctx,
		"SELECT name, type FROM system.columns WHERE database = currentDatabase() AND table = ? ORDER BY position",
		table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []ColumnDef
	for rows.Next() {
		var def ColumnDef
		if err := rows.Scan(&def.Name, &def.Type); err != nil {
			return nil, err
		}
		columns = append(columns, def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return columns, nil
}

// ColumnDef is one column of a table schema.
type ColumnDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// scanRows materializes a result set into column names and generic rows.
func scanRows(rows chdriver.Rows) ([]string, []map[string]interface{}, error) {
	columns := rows.Columns()
	columnTypes := rows.ColumnTypes()

	out := make([]map[string]interface{}, 0)
	for rows.Next() {
		valuePtrs := make([]interface{}, len(columns))
		for i, ct := range columnTypes {
			switch ct.ScanType().Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				var v int64
				valuePtrs[i] = &v
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				var v uint64
				valuePtrs[i] = &v
			case reflect.Float32, reflect.Float64:
				var v float64
				valuePtrs[i] = &v
			case reflect.Bool:
				var v bool
				valuePtrs[i] = &v
			default:
				var v string
				valuePtrs[i] = &v
			}
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, fmt.Errorf("error scanning row: %w", err)
		}

		entry := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			entry[col] = reflect.ValueOf(valuePtrs[i]).Elem().Interface()
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, out, nil
}
