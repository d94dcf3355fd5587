package vectorstore

import "github.com/polystoreio/polystore/pkg/gateway/adapter"

func init() {
	// Register the vector store adapter with the global registry
	adapter.Register(NewAdapter())
}
