package cache

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/twai/twai/config"
)

// The cache holds objects that are expensive to load and shared by many
// games, such as weight files. A self-play run starts many games with the
// same weights and should read the file once.

type cache struct {
	sync.Mutex
	objects map[string]any
}

type loadFunc func(cfg *config.Config, key string) (any, error)

// GlobalObjectCache is the process-wide cache.
var GlobalObjectCache *cache

var createOnce sync.Once

func (c *cache) load(cfg *config.Config, key string, loadFunc loadFunc) error {
	log.Debug().Str("key", key).Msg("loading-into-cache")

	obj, err := loadFunc(cfg, key)
	if err != nil {
		return err
	}
	c.objects[key] = obj

	return nil
}

func (c *cache) get(cfg *config.Config, key string, loadFunc loadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting-obj-from-cache")
		return obj, nil
	}
	if err := c.load(cfg, key, loadFunc); err != nil {
		return nil, err
	}
	return c.objects[key], nil
}

func CreateGlobalObjectCache() {
	GlobalObjectCache = &cache{objects: make(map[string]any)}
}

// Load returns the cached object under name, calling loadFunc to create it
// the first time.
func Load(cfg *config.Config, name string, loadFunc loadFunc) (any, error) {
	createOnce.Do(func() {
		if GlobalObjectCache == nil {
			CreateGlobalObjectCache()
		}
	})
	return GlobalObjectCache.get(cfg, name, loadFunc)
}

// LoadTyped is Load with the result asserted to T.
func LoadTyped[T any](cfg *config.Config, name string, loadFunc loadFunc) (T, error) {
	var zero T
	obj, err := Load(cfg, name, loadFunc)
	if err != nil {
		return zero, err
	}
	t, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("cache: object %q has type %T", name, obj)
	}
	return t, nil
}

// Remove drops an object so the next Load reads it again.
func Remove(name string) {
	if GlobalObjectCache == nil {
		return
	}
	GlobalObjectCache.Lock()
	defer GlobalObjectCache.Unlock()
	delete(GlobalObjectCache.objects, name)
}
