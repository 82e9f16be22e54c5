package redis

import (
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=mocks/redis.go -package=redismocks -source=interface.go

// Client is the subset of go-redis the snapshot repository depends on.
// Any redis.UniversalClient satisfies it.
type Client interface {
	redis.Cmdable
	Close() error
}
