package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CacheConfig holds configuration for cache operations
type CacheConfig struct {
	DirPermission  os.FileMode
	FilePermission os.FileMode
	TTL            time.Duration
}

// DefaultTTL is the lifetime of a cached tenant list
const DefaultTTL = 8 * time.Hour

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		DirPermission:  0755,
		FilePermission: 0644,
		TTL:            DefaultTTL,
	}
}

// Sentinel miss reasons
var (
	ErrExpired  = errors.New("cache expired")
	ErrDisabled = errors.New("cache disabled for this run")
	ErrCorrupt  = errors.New("cached payload is not valid JSON")
)

// CacheError represents a structured cache error
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s failed for key %s: %v", e.Operation, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// IsMiss reports whether err only means "not in cache"
func IsMiss(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrDisabled) ||
		errors.Is(err, ErrCorrupt)
}

// checkTTL validates if a cache item written at cachedAt has expired at now.
// Age is measured from the write, never from the last read.
func checkTTL(cachedAt, now time.Time, ttl time.Duration) error {
	if now.Sub(cachedAt) > ttl {
		return ErrExpired
	}
	return nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place, so readers never see a partial file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
