package main

import (
	"fmt"
	"path/filepath"

	"github.com/sinclairtarget/wcasa/internal/cache"
	cacheBackends "github.com/sinclairtarget/wcasa/internal/cache/backends"
)

func warnFail(err error) *cache.Cache {
	logger().Warn(
		fmt.Sprintf("failed to initialize cache: %v", err),
	)
	logger().Warn("disabling caching")
	return cache.NewCache(cacheBackends.NoopBackend{})
}

// getCache returns an open cache of the given kind for the working copy at
// root. Caching falls back to a no-op cache on any error.
func getCache(kind string, root string) *cache.Cache {
	if kind == "" || kind == "none" {
		return cache.NewCache(cacheBackends.NoopBackend{})
	}

	dir, err := cache.StorageDir(kind)
	if err != nil {
		return warnFail(err)
	}

	name := cache.RootName(root)

	var backend cache.Backend
	switch kind {
	case cacheBackends.JSONBackendName:
		backend = &cacheBackends.JSONBackend{
			Path: filepath.Join(dir, name+".ndjson"),
		}
	case cacheBackends.GobBackendName:
		backend = &cacheBackends.GobBackend{
			Path: filepath.Join(dir, name+".gobs"),
		}
	case cacheBackends.SQLiteBackendName:
		backend = &cacheBackends.SQLiteBackend{
			Path: filepath.Join(dir, name+".db"),
		}
	default:
		return warnFail(fmt.Errorf("unknown cache backend \"%s\"", kind))
	}

	c := cache.NewCache(backend)
	if err := c.Open(); err != nil {
		return warnFail(err)
	}

	logger().Debug("cache initialized", "backend", kind, "dir", dir)
	return c
}
