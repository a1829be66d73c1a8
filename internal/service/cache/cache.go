package cache

import "time"

// BytesCache stores serialized response payloads with a TTL. Handlers cache
// marshaled JSON, so the interface deals only in raw bytes.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
