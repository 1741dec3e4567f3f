package models

import "time"

// CacheEntry describes one cached tenant list on disk
type CacheEntry struct {
	Key      string        `json:"key"`
	Path     string        `json:"path"`
	CachedAt time.Time     `json:"cached_at"`
	Size     int64         `json:"size"`
	TTL      time.Duration `json:"ttl"`
}

// Age returns how long ago the entry was written
func (e CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.CachedAt)
}

// IsExpired checks if the entry is older than its TTL
func (e CacheEntry) IsExpired(now time.Time) bool {
	return e.Age(now) > e.TTL
}
