package catalog

import (
	"os"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Cache holds one loaded catalog keyed by file path and modification time,
// reloading when the spreadsheet changes on disk. It exists so the serve
// command picks up edits between requests without re-reading on every hit.
type Cache struct {
	mu      sync.Mutex
	path    string
	sheet   string
	modTime time.Time
	cat     *Catalog
}

// NewCache creates an empty cache for the given spreadsheet location.
func NewCache(path, sheet string) *Cache {
	return &Cache{path: path, sheet: sheet}
}

// Get returns the cached catalog, reloading it if the file's modification
// time changed since the last load.
func (c *Cache) Get() (*Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(c.path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: stat %s", c.path)
	}

	if c.cat != nil && info.ModTime().Equal(c.modTime) {
		return c.cat, nil
	}

	cat, err := Load(c.path, c.sheet)
	if err != nil {
		return nil, err
	}

	if c.cat != nil {
		zap.L().Info("catalog reloaded",
			zap.String("path", c.path),
			zap.Int("recipes", cat.Len()),
		)
	}
	c.cat = cat
	c.modTime = info.ModTime()
	return cat, nil
}

// Invalidate discards the cached catalog so the next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cat = nil
	c.modTime = time.Time{}
}
