package search

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewBackend selects a search backend by configured name
func NewBackend(name string, rdb *redis.Client) (Backend, error) {
	switch name {
	case "", BackendDatabase:
		return NewDatabaseBackend(), nil
	case BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("search backend %q requires a redis connection", name)
		}
		return NewRedisBackend(rdb), nil
	default:
		return nil, fmt.Errorf("unknown search backend %q", name)
	}
}
