package database

import (
	"github.com/bradfitz/gomemcache/memcache"
)

var Mem *memcache.Client

// Set permits to set a temporary value, on the cache
// via Memcached
func Set(key string, value []byte, time int32) {
	if Mem == nil {
		return
	}

	Mem.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: time,
	})
}

// Get reads a cached value; a nil slice means a miss
func Get(key string) []byte {
	if Mem == nil {
		return nil
	}

	item, err := Mem.Get(key)
	if err != nil {
		return nil
	}

	return item.Value
}

// Invalidate removes a key from the cache
func Invalidate(key string) {
	if Mem == nil {
		return
	}

	Mem.Delete(key)
}
