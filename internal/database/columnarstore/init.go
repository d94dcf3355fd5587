package columnarstore

import "github.com/polystoreio/polystore/pkg/gateway/adapter"

func init() {
	// Register the columnar store adapter with the global registry
	adapter.Register(NewAdapter())
}
