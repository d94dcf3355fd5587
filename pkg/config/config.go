package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// EnvPrefix is the prefix for all environment variables consumed by the gateway.
const EnvPrefix = "POLYSTORE_"

// Config manages gateway configuration as a flat key/value store.
// Keys use dotted lowercase form, e.g. "object.host"; the corresponding
// environment variable is POLYSTORE_OBJECT_HOST.
type Config struct {
	mu     sync.RWMutex
	values map[string]string
}

// New creates an empty configuration manager
func New() *Config {
	return &Config{
		values: make(map[string]string),
	}
}

// FromEnv creates a configuration manager populated from the process
// environment. Only variables carrying the POLYSTORE_ prefix are read.
func FromEnv() *Config {
	c := New()

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		key = strings.ReplaceAll(key, "_", ".")
		c.values[key] = value
	}

	return c
}

// Get retrieves a configuration value
func (c *Config) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// GetOr retrieves a configuration value, falling back to def when unset.
func (c *Config) GetOr(key, def string) string {
	if v := c.Get(key); v != "" {
		return v
	}
	return def
}

// GetInt retrieves an integer configuration value, falling back to def when
// unset or malformed.
func (c *Config) GetInt(key string, def int) int {
	v := c.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetBool retrieves a boolean configuration value ("true"/"1"/"yes").
func (c *Config) GetBool(key string) bool {
	switch strings.ToLower(c.Get(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// GetDuration retrieves a duration configuration value, falling back to def
// when unset or malformed.
func (c *Config) GetDuration(key string, def time.Duration) time.Duration {
	v := c.Get(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Has reports whether a key is present and non-empty.
func (c *Config) Has(key string) bool {
	return c.Get(key) != ""
}

// GetAll returns a copy of all configuration values
func (c *Config) GetAll() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make(map[string]string, len(c.values))
	for k, v := range c.values {
		all[k] = v
	}
	return all
}

// Update updates configuration values
func (c *Config) Update(values map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, v := range values {
		c.values[k] = v
	}
}
