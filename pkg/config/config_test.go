package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("POLYSTORE_OBJECT_HOST", "minio.internal")
	t.Setenv("POLYSTORE_OBJECT_PORT", "9100")
	t.Setenv("POLYSTORE_VECTOR_SSL", "true")
	t.Setenv("UNRELATED_VALUE", "ignored")

	cfg := FromEnv()

	assert.Equal(t, "minio.internal", cfg.Get("object.host"))
	assert.Equal(t, 9100, cfg.GetInt("object.port", 0))
	assert.True(t, cfg.GetBool("vector.ssl"))
	assert.False(t, cfg.Has("unrelated.value"))
}

func TestDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "fallback", cfg.GetOr("missing", "fallback"))
	assert.Equal(t, 42, cfg.GetInt("missing", 42))
	assert.Equal(t, time.Minute, cfg.GetDuration("missing", time.Minute))
	assert.False(t, cfg.GetBool("missing"))
}

func TestGetIntRejectsGarbage(t *testing.T) {
	cfg := New()
	cfg.Update(map[string]string{"object.port": "not-a-number"})

	assert.Equal(t, 7, cfg.GetInt("object.port", 7))
}

func TestUpdateAndGetAll(t *testing.T) {
	cfg := New()
	cfg.Update(map[string]string{"a": "1", "b": "2"})

	all := cfg.GetAll()
	assert.Len(t, all, 2)

	// GetAll returns a copy
	all["a"] = "mutated"
	assert.Equal(t, "1", cfg.Get("a"))
}
