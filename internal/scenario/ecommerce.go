// Package scenario runs demo walkthroughs that exercise every paradigm
// through the gateway, never talking to a backend directly.
package scenario

import (
	"context"
	"fmt"

	"github.com/polystoreio/polystore/internal/gateway"
	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/logger"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// Step is the outcome of one scenario action.
type Step struct {
	Name     string            `json:"name"`
	Envelope gateway.Envelope  `json:"envelope"`
	Paradigm paradigm.Paradigm `json:"paradigm"`
}

// Report is the full scenario outcome. Failed steps stay in the report; a
// degraded backend takes down only the steps that need it.
type Report struct {
	Scenario string `json:"scenario"`
	Steps    []Step `json:"steps"`
	Passed   int    `json:"passed"`
	Failed   int    `json:"failed"`
}

// Ecommerce drives an online-shop walkthrough across all four paradigms.
type Ecommerce struct {
	router *gateway.Router
	log    *logger.Logger
}

// NewEcommerce creates the scenario over a router.
func NewEcommerce(router *gateway.Router, log *logger.Logger) *Ecommerce {
	return &Ecommerce{router: router, log: log}
}

type product struct {
	id          string
	name        string
	category    string
	price       float64
	description string
}

var products = []product{
	{"p-1001", "Trail Running Shoes", "footwear", 89.90, "Lightweight trail running shoes with aggressive grip for muddy terrain."},
	{"p-1002", "Waterproof Hiking Jacket", "apparel", 149.00, "Breathable three-layer shell jacket that keeps rain out on long hikes."},
	{"p-1003", "Titanium Camping Stove", "gear", 64.50, "Compact titanium stove that boils a liter of water in under four minutes."},
	{"p-1004", "Insulated Water Bottle", "gear", 24.90, "Double-wall insulated bottle keeping drinks cold for 24 hours."},
}

type customer struct {
	id   string
	name string
}

var customers = []customer{
	{"u-1", "Ada"},
	{"u-2", "Bjarne"},
	{"u-3", "Grace"},
	{"u-4", "Linus"},
}

// follows holds who follows whom; u-1 reaches u-4 only through two hops.
var follows = [][2]string{
	{"u-1", "u-2"},
	{"u-2", "u-3"},
	{"u-2", "u-4"},
	{"u-3", "u-4"},
}

type sale struct {
	orderID  string
	product  string
	category string
	region   string
	quantity int
	price    float64
}

var sales = []sale{
	{"o-1", "Trail Running Shoes", "footwear", "eu", 2, 89.90},
	{"o-2", "Waterproof Hiking Jacket", "apparel", "us", 1, 149.00},
	{"o-3", "Titanium Camping Stove", "gear", "eu", 3, 64.50},
	{"o-4", "Insulated Water Bottle", "gear", "apac", 5, 24.90},
	{"o-5", "Trail Running Shoes", "footwear", "us", 1, 89.90},
}

const salesTable = "scenario_sales"

// Run executes the walkthrough and returns the step report.
func (e *Ecommerce) Run(ctx context.Context) Report {
	report := Report{Scenario: "ecommerce"}

	// Product images land in the object store
	for _, p := range products {
		report.add(e.step(ctx, fmt.Sprintf("store image %s", p.id), adapter.Operation{
			Paradigm: paradigm.Object,
			Kind:     "put",
			Params: map[string]interface{}{
				"key":         fmt.Sprintf("products/%s/image.png", p.id),
				"content":     fmt.Sprintf("png-bytes-for-%s", p.id),
				"contentType": "image/png",
			},
		}))
	}

	// Product descriptions become searchable vectors
	for _, p := range products {
		report.add(e.step(ctx, fmt.Sprintf("index description %s", p.id), adapter.Operation{
			Paradigm: paradigm.Vector,
			Kind:     "index",
			Params: map[string]interface{}{
				"id":   p.id,
				"text": p.description,
				"metadata": map[string]interface{}{
					"name":     p.name,
					"category": p.category,
					"price":    p.price,
				},
			},
		}))
	}
	report.add(e.step(ctx, "search similar products", adapter.Operation{
		Paradigm: paradigm.Vector,
		Kind:     "query",
		Params: map[string]interface{}{
			"text": "shoes for running on wet trails",
			"topK": 2,
		},
	}))

	// Customers and their follow graph
	for _, cu := range customers {
		report.add(e.step(ctx, fmt.Sprintf("create customer %s", cu.id), adapter.Operation{
			Paradigm: paradigm.Graph,
			Kind:     "createNode",
			Params: map[string]interface{}{
				"label": "Customer",
				"properties": map[string]interface{}{
					"id":   cu.id,
					"name": cu.name,
				},
			},
		}))
	}
	for _, f := range follows {
		report.add(e.step(ctx, fmt.Sprintf("follow %s -> %s", f[0], f[1]), adapter.Operation{
			Paradigm: paradigm.Graph,
			Kind:     "createEdge",
			Params: map[string]interface{}{
				"fromId":   f[0],
				"toId":     f[1],
				"relation": "FOLLOWS",
			},
		}))
	}
	report.add(e.step(ctx, "direct follows of u-1", adapter.Operation{
		Paradigm: paradigm.Graph,
		Kind:     "neighbors",
		Params: map[string]interface{}{
			"nodeId":   "u-1",
			"relation": "FOLLOWS",
			"maxHops":  1,
		},
	}))
	report.add(e.step(ctx, "exactly-2-hop network of u-1", adapter.Operation{
		Paradigm: paradigm.Graph,
		Kind:     "neighbors",
		Params: map[string]interface{}{
			"nodeId":   "u-1",
			"relation": "FOLLOWS",
			"maxHops":  2,
		},
	}))

	// Sales go to the columnar store and feed the analytics queries
	columns := []interface{}{
		map[string]interface{}{"name": "order_id", "type": "String"},
		map[string]interface{}{"name": "product", "type": "String"},
		map[string]interface{}{"name": "category", "type": "String"},
		map[string]interface{}{"name": "region", "type": "String"},
		map[string]interface{}{"name": "quantity", "type": "Int64"},
		map[string]interface{}{"name": "price", "type": "Float64"},
	}
	report.add(e.step(ctx, "create sales table", adapter.Operation{
		Paradigm: paradigm.Columnar,
		Kind:     "createTable",
		Params: map[string]interface{}{
			"table":   salesTable,
			"columns": columns,
		},
	}))

	rows := make([]interface{}, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, map[string]interface{}{
			"order_id": s.orderID,
			"product":  s.product,
			"category": s.category,
			"region":   s.region,
			"quantity": s.quantity,
			"price":    s.price,
		})
	}
	report.add(e.step(ctx, "load sales", adapter.Operation{
		Paradigm: paradigm.Columnar,
		Kind:     "bulkInsert",
		Params: map[string]interface{}{
			"table": salesTable,
			"rows":  rows,
		},
	}))

	for _, name := range []string{"total-by-category", "total-by-region", "top-products"} {
		report.add(e.step(ctx, "analytics "+name, adapter.Operation{
			Paradigm: paradigm.Columnar,
			Kind:     "query",
			Params: map[string]interface{}{
				"name":   name,
				"params": map[string]interface{}{"table": salesTable},
			},
		}))
	}

	if e.log != nil {
		e.log.Info("ecommerce scenario finished: %d passed, %d failed", report.Passed, report.Failed)
	}
	return report
}

func (e *Ecommerce) step(ctx context.Context, name string, op adapter.Operation) Step {
	env := e.router.Route(ctx, op)
	return Step{Name: name, Paradigm: op.Paradigm, Envelope: env}
}

func (r *Report) add(s Step) {
	r.Steps = append(r.Steps, s)
	if s.Envelope.OK {
		r.Passed++
	} else {
		r.Failed++
	}
}
