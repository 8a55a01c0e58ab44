package source

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"yashubustudio/sleepsurvey/survey"
)

type cacheEntry struct {
	table   *survey.Table
	fetched time.Time
}

// tableCache keeps the last parsed table per source in memory and, when dir is
// set, the raw export on disk so a restart can serve it while the source is down.
type tableCache struct {
	mu  sync.RWMutex
	m   map[string]cacheEntry
	dir string
}

func newTableCache(dir string) *tableCache {
	return &tableCache{m: make(map[string]cacheEntry), dir: dir}
}

func (c *tableCache) get(key string) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[key]
	return e, ok
}

func (c *tableCache) put(key string, t *survey.Table, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = cacheEntry{table: t, fetched: at}
}

func (c *tableCache) path(key string) string {
	return filepath.Join(c.dir, key+".csv")
}

// load returns the raw export saved for key, if any.
func (c *tableCache) load(key string) ([]byte, bool, error) {
	if c.dir == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, fmt.Errorf("cache file empty: %s", c.path(key))
	}
	return data, true, nil
}

func (c *tableCache) save(key string, data []byte) error {
	if c.dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path(key))
}

func cacheKey(location string, delim rune) string {
	h := sha1.Sum([]byte(location + "|" + string(delim)))
	return hex.EncodeToString(h[:])
}
