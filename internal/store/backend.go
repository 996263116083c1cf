package store

import "errors"

// DefaultKey is the storage key the collection lives under.
const DefaultKey = "techTrackerData"

// ErrNotFound is returned by a Backend when nothing is stored under a key.
var ErrNotFound = errors.New("not found")

// Backend is durable key/value storage holding raw serialized documents.
// Implementations: jsonstore (one file per key) and sqlitestore (kv table).
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
	Remove(key string) error
}
