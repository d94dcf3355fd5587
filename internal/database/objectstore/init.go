package objectstore

import "github.com/polystoreio/polystore/pkg/gateway/adapter"

func init() {
	// Register the object store adapter with the global registry
	adapter.Register(NewAdapter())
}
