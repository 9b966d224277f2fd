package cache

import (
	"context"
	"time"
)

var _ Cache = (*NullCache)(nil)

// NullCache never stores anything. It is used when no REDIS_URL is configured.
type NullCache struct{}

func NewNullCache() *NullCache { return &NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
