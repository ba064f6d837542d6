package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKeyOpts are the inputs that change a rendered artifact besides the
// graph itself.
type ArtifactKeyOpts struct {
	Backend string `json:"backend"`
	Format  string `json:"format"`
	// Variant distinguishes option sets within one backend (layout engine,
	// style overrides, canvas size).
	Variant string `json:"variant,omitempty"`
}

// ArtifactKey returns the cache key for a graph rendered by one backend.
func ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// hashKey generates a key of the form prefix:sha256(parts).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}
