package cache

import (
	"encoding/json"

	"github.com/lsmithpanw/pcs-where-is/internal/models"
)

// Cache defines the interface for tenant-list cache operations
type Cache interface {
	// GetCustomers returns the cached tenant list of a stack. Any error means
	// a miss; expired entries are deleted before the miss is reported.
	GetCustomers(stackName string) (json.RawMessage, error)
	// SetCustomers stores a successfully fetched tenant list. It is a no-op
	// when caching is disabled for the run.
	SetCustomers(stackName string, payload json.RawMessage) error

	// Cache management
	Status() ([]models.CacheEntry, error)
	ClearCache() error
}

var _ Cache = (*FileCache)(nil)
