// Package redis provides the Redis-backed address cache.
//
// Client wraps go-redis with locus logging. Store adapts it to
// resolver.CacheStore, and Component manages its lifecycle:
//
//	cache:
//	  provider: redis
//	  redis:
//	    addr: "localhost:6379"
//	    ttl: "5m"
//
//	comp := redis.NewComponent(cfg.Cache.Redis, log)
//	registry.Register(comp)
//	// after StartAll
//	res, err := resolver.New(comp.Store(), disc)
package redis
