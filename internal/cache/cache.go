// Package cache abstracts the comparables cache so the market engine does
// not care whether Redis is configured.
package cache

import "time"

// Repository is a string key/value cache with per-entry expiry.
type Repository interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration) error
}
