package store

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

// TitleCache remembers fetched page titles by URL.
type TitleCache interface {
	Get(url string) (string, bool)
	Put(url, title string) error
}

// cachedTitle is the value stored per URL.
type cachedTitle struct {
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	Fetched time.Time `json:"fetched"`
}

// LoadTitleCache creates a TitleCache backed by diskv under cfg.CachePath().
func LoadTitleCache(cfg Config) (TitleCache, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	base := cfg.CachePath()
	if base == "" {
		return nil, errors.New("store: cache path unknown")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure cache path: %w", err)
	}
	return &titleCache{d: diskv.New(diskv.Options{
		BasePath:          base,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      256 * 1024,
	})}, nil
}

type titleCache struct {
	d *diskv.Diskv
}

func (c *titleCache) Get(url string) (string, bool) {
	val, err := c.d.Read(toKey(url))
	if err != nil {
		return "", false
	}
	var ct cachedTitle
	if err := json.Unmarshal(val, &ct); err != nil || ct.URL != url {
		return "", false
	}
	return ct.Title, ct.Title != ""
}

func (c *titleCache) Put(url, title string) error {
	data, err := json.Marshal(cachedTitle{URL: url, Title: title, Fetched: time.Now().UTC()})
	if err != nil {
		return err
	}
	return c.d.Write(toKey(url), data)
}

// Keys are sha1 hex digests, fanned out into two-character directories.
func keyToPathTransform(s string) *diskv.PathKey {
	if len(s) < 2 {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{s[:2]},
		FileName: s[2:],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return pathKey.Path[0] + pathKey.FileName
}

func toKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
