package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const keyPrefix = "truthlens:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key from a value. Keys are filesystem-safe.
func Key(namespace, value string) string {
	hash := sha256.Sum256([]byte(value))
	return keyPrefix + namespace + ":" + hex.EncodeToString(hash[:])
}

// NormalizeText lowercases text and collapses whitespace so trivially
// different spellings of the same claim share a key
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
