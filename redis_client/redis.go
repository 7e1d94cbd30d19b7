package redis_client

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var (
	RDB *redis.Client
	Ctx = context.Background()
)

// Init creates the shared Redis client used as the resolver metadata cache.
// Returns nil when no address is configured.
func Init() *redis.Client {
	addr := viper.GetString("redis.address")
	if addr == "" {
		return nil
	}
	RDB = redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return RDB
}
