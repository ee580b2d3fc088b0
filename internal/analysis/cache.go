package analysis

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotCached is returned when deleting an analysis that is not stored.
var ErrNotCached = errors.New("analysis not cached")

// Cache stores analyses keyed by company id. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the stored analysis and whether one exists.
	Get(companyID string) (CompanyAnalysis, bool, error)
	// Put stores an analysis, replacing any previous one for the company.
	Put(result CompanyAnalysis) error
	// List returns every stored analysis ordered by company id.
	List() ([]CompanyAnalysis, error)
	// Delete removes a stored analysis, returning ErrNotCached if absent.
	Delete(companyID string) error
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	results map[string]CompanyAnalysis
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{results: make(map[string]CompanyAnalysis)}
}

func (c *MemoryCache) Get(companyID string) (CompanyAnalysis, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.results[companyID]
	return result, ok, nil
}

func (c *MemoryCache) Put(result CompanyAnalysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[result.CompanyID] = result
	return nil
}

func (c *MemoryCache) List() ([]CompanyAnalysis, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	results := make([]CompanyAnalysis, 0, len(c.results))
	for _, r := range c.results {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CompanyID < results[j].CompanyID })
	return results, nil
}

func (c *MemoryCache) Delete(companyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.results[companyID]; !ok {
		return ErrNotCached
	}
	delete(c.results, companyID)
	return nil
}
