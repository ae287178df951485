// Package redis connects to a Redis server for the redis-backed session store.
//
// It wraps github.com/redis/go-redis/v9 with a retrying Connect and a
// Healthcheck for readiness probes. Configuration is read from REDIS_*
// environment variables via github.com/caarlos0/env.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := redisstore.New(client)
package redis
