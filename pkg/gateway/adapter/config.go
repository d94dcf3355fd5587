package adapter

// ConnectionConfig contains the configuration for a backend connection.
// This is a unified configuration that works across all four paradigms; each
// adapter reads the fields that apply to its backend.
type ConnectionConfig struct {
	// Connection identity
	ConnectionID string `json:"connectionId,omitempty"`

	// Connection details
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	SSL      bool   `json:"ssl,omitempty"`

	// Object storage (MinIO)
	AccessKeyID     string `json:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
	Bucket          string `json:"bucket,omitempty"`
	Region          string `json:"region,omitempty"`

	// Vector store (Chroma)
	Collection      string `json:"collection,omitempty"`
	VectorDimension int    `json:"vectorDimension,omitempty"`
	DistanceMetric  string `json:"distanceMetric,omitempty"` // "cosine", "l2", "ip", or "similarity"
	TopKCeiling     int    `json:"topKCeiling,omitempty"`
	EmbeddingHost   string `json:"embeddingHost,omitempty"`  // OpenAI-compatible embedding endpoint
	EmbeddingModel  string `json:"embeddingModel,omitempty"` // e.g. "all-MiniLM-L6-v2"

	// Columnar store (ClickHouse)
	DatabaseName string `json:"databaseName,omitempty"`

	// Backend-specific options (use sparingly)
	Options map[string]interface{} `json:"options,omitempty"`
}
