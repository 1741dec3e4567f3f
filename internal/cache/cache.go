package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lsmithpanw/pcs-where-is/internal/logger"
	"github.com/lsmithpanw/pcs-where-is/internal/models"

	"go.uber.org/zap"
)

// FileCache represents a file-based tenant-list cache. The directory is
// shared between invocations and carries no locking; writes replace whole
// files so a racing reader sees either the old or the new payload.
type FileCache struct {
	baseDir string
	enabled bool
	now     func() time.Time
	config  *CacheConfig
}

// NewFileCache creates a new file cache instance. When enabled is false the
// cache never serves or stores data and removes any entry it is asked for.
func NewFileCache(baseDir string, ttl time.Duration, enabled bool) *FileCache {
	cfg := DefaultCacheConfig()
	if ttl > 0 {
		cfg.TTL = ttl
	}
	return &FileCache{
		baseDir: baseDir,
		enabled: enabled,
		now:     time.Now,
		config:  cfg,
	}
}

// WithClock replaces the clock used for TTL checks
func (fc *FileCache) WithClock(now func() time.Time) *FileCache {
	fc.now = now
	return fc
}

// GetCacheDir returns the cache directory
func (fc *FileCache) GetCacheDir() string {
	return fc.baseDir
}

// Enabled reports whether caching is enabled for this run
func (fc *FileCache) Enabled() bool {
	return fc.enabled
}

// Path returns the cache file path of a stack's tenant list
func (fc *FileCache) Path(stackName string) string {
	return filepath.Join(fc.baseDir, CustomersFile(stackName))
}

// GetCustomers retrieves a cached tenant list
func (fc *FileCache) GetCustomers(stackName string) (json.RawMessage, error) {
	key := Key(stackName)
	cachePath := fc.Path(stackName)

	info, err := os.Stat(cachePath)
	if err != nil {
		logger.GetLogger().Debug("No cached tenant list", zap.String("stack", stackName), zap.String("path", cachePath))
		return nil, &CacheError{Operation: "read", Key: key, Err: err}
	}

	if !fc.enabled {
		logger.GetLogger().Debug("Deleting cached stack file, caching disabled", zap.String("path", cachePath))
		fc.remove(cachePath)
		return nil, &CacheError{Operation: "read", Key: key, Err: ErrDisabled}
	}
	if err := checkTTL(info.ModTime(), fc.now(), fc.config.TTL); err != nil {
		logger.GetLogger().Debug("Deleting expired cached stack file",
			zap.String("path", cachePath),
			zap.Time("cached_at", info.ModTime()),
			zap.Duration("ttl", fc.config.TTL))
		fc.remove(cachePath)
		return nil, &CacheError{Operation: "read", Key: key, Err: err}
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		logger.GetLogger().Debug("Failed to read cache file", zap.String("path", cachePath), zap.Error(err))
		return nil, &CacheError{Operation: "read", Key: key, Err: err}
	}
	if !json.Valid(data) {
		logger.GetLogger().Debug("Deleting corrupt cached stack file", zap.String("path", cachePath))
		fc.remove(cachePath)
		return nil, &CacheError{Operation: "unmarshal", Key: key, Err: ErrCorrupt}
	}

	logger.GetLogger().Debug("Reading cached stack file", zap.String("path", cachePath), zap.Int("bytes", len(data)))
	return json.RawMessage(data), nil
}

// SetCustomers stores a tenant list in cache
func (fc *FileCache) SetCustomers(stackName string, payload json.RawMessage) error {
	if !fc.enabled {
		return nil
	}
	key := Key(stackName)

	if !json.Valid(payload) {
		return &CacheError{Operation: "marshal", Key: key, Err: ErrCorrupt}
	}

	if err := os.MkdirAll(fc.baseDir, fc.config.DirPermission); err != nil {
		return &CacheError{Operation: "mkdir", Key: key, Err: err}
	}

	cachePath := fc.Path(stackName)
	if err := writeFileAtomic(cachePath, payload, fc.config.FilePermission); err != nil {
		return &CacheError{Operation: "write", Key: key, Err: err}
	}

	logger.GetLogger().Debug("Cached tenant list", zap.String("stack", stackName), zap.String("path", cachePath))
	return nil
}

// Status lists every tenant-list cache entry in the cache directory
func (fc *FileCache) Status() ([]models.CacheEntry, error) {
	entries, err := os.ReadDir(fc.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache directory %s: %w", fc.baseDir, err)
	}

	var result []models.CacheEntry
	for _, entry := range entries {
		if entry.IsDir() || !isCustomersFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // removed by a concurrent run
		}
		result = append(result, models.CacheEntry{
			Key:      keyFromFile(entry.Name()),
			Path:     filepath.Join(fc.baseDir, entry.Name()),
			CachedAt: info.ModTime(),
			Size:     info.Size(),
			TTL:      fc.config.TTL,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// ClearCache removes every tenant-list cache file. Other files in the
// directory are left alone, since the default directory is the shared
// system temp dir.
func (fc *FileCache) ClearCache() error {
	entries, err := fc.Status()
	if err != nil {
		return err
	}

	var errorMessages []string
	for _, entry := range entries {
		if err := os.Remove(entry.Path); err != nil && !os.IsNotExist(err) {
			logger.GetLogger().Error("Failed to remove cache file", zap.String("path", entry.Path), zap.Error(err))
			errorMessages = append(errorMessages, fmt.Sprintf("failed to remove cache file %s: %v", entry.Path, err))
			continue
		}
		logger.GetLogger().Debug("Removed cache file", zap.String("path", entry.Path))
	}

	if len(errorMessages) > 0 {
		return fmt.Errorf("cache clear encountered errors: %s", strings.Join(errorMessages, "; "))
	}
	return nil
}

func (fc *FileCache) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.GetLogger().Warn("Failed to remove cache file", zap.String("path", path), zap.Error(err))
	}
}
