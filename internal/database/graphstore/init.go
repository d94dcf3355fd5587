package graphstore

import "github.com/polystoreio/polystore/pkg/gateway/adapter"

func init() {
	// Register the graph store adapter with the global registry
	adapter.Register(NewAdapter())
}
