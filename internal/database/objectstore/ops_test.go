package objectstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
)

// connAgainst wires a Connection to a stub HTTP backend.
func connAgainst(t *testing.T, handler http.HandlerFunc) *Connection {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mc, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("test", "test", ""),
		Secure: false,
		Region: "us-east-1",
	})
	require.NoError(t, err)

	return &Connection{
		client:    &Client{client: mc, bucket: "demo"},
		connected: 1,
	}
}

func TestOpsRejectEmptyKey(t *testing.T) {
	c := &Connection{connected: 1}

	for _, kind := range []string{"put", "get", "delete", "stat"} {
		_, err := c.Execute(context.Background(), adapter.Operation{
			Kind:   kind,
			Params: map[string]interface{}{"key": ""},
		})
		assert.ErrorIs(t, err, adapter.ErrInvalidInput, "kind=%s", kind)
	}
}

func TestDeleteMissingKeyIsNotFound(t *testing.T) {
	c := connAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			t.Error("removal must not be attempted for an absent key")
		}
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Execute(context.Background(), adapter.Operation{
		Kind:   "delete",
		Params: map[string]interface{}{"key": "ghost.png"},
	})
	assert.ErrorIs(t, err, adapter.ErrNotFound)
}

func TestStatMissingKeyIsNotFound(t *testing.T) {
	c := connAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Execute(context.Background(), adapter.Operation{
		Kind:   "stat",
		Params: map[string]interface{}{"key": "ghost.png"},
	})
	assert.ErrorIs(t, err, adapter.ErrNotFound)
}

func TestExecuteRejectsClosedConnection(t *testing.T) {
	c := &Connection{connected: 0}

	_, err := c.Execute(context.Background(), adapter.Operation{Kind: "list"})
	assert.ErrorIs(t, err, adapter.ErrConnectionClosed)
}

func TestExecuteRejectsUnknownKind(t *testing.T) {
	c := &Connection{connected: 1}

	_, err := c.Execute(context.Background(), adapter.Operation{Kind: "rename"})
	assert.ErrorIs(t, err, adapter.ErrOperationNotSupported)
}

func TestCloseIsSingleShot(t *testing.T) {
	c := &Connection{connected: 1}

	assert.NoError(t, c.Close())
	assert.ErrorIs(t, c.Close(), adapter.ErrConnectionClosed)
	assert.False(t, c.IsConnected())
}
