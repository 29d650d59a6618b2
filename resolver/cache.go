package resolver

import (
	"context"

	"github.com/kbukum/locus/errors"
	"github.com/kbukum/locus/logger"
)

// CacheKey returns the cache key for service.
func (r *Resolver) CacheKey(service string) string {
	return r.keyPrefix + service
}

// ReadCache returns the cached address list for service exactly as it was
// written. A missing, undecodable or empty entry reports (nil, false, nil);
// an undecodable one is also logged and counted. Store failures are returned
// as CACHE_UNAVAILABLE errors.
func (r *Resolver) ReadCache(ctx context.Context, service string) ([]string, bool, error) {
	key := r.CacheKey(service)
	payload, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.metrics.recordBackendError(ctx, "cache", "get")
		return nil, false, errors.CacheUnavailable("get", err).WithDetail("key", key)
	}
	if !ok {
		return nil, false, nil
	}

	addrs, err := decodeAddresses(payload)
	if err != nil {
		r.metrics.recordDecodeFailure(ctx)
		r.log.WithContext(ctx).Warn("ignoring undecodable cache entry", logger.Fields(
			logger.FieldKey, key,
			logger.FieldError, err.Error(),
		))
		return nil, false, nil
	}
	if len(addrs) == 0 {
		return nil, false, nil
	}
	return addrs, true, nil
}

// WriteCache stores addrs for service unchanged, replacing any previous
// entry.
func (r *Resolver) WriteCache(ctx context.Context, service string, addrs []string) error {
	if service == "" {
		return errors.InvalidInput("service", "service must not be empty")
	}
	payload, err := encodeAddresses(addrs)
	if err != nil {
		return errors.Internal(err)
	}
	key := r.CacheKey(service)
	if err := r.cache.Set(ctx, key, payload); err != nil {
		r.metrics.recordBackendError(ctx, "cache", "set")
		return errors.CacheUnavailable("set", err).WithDetail("key", key)
	}
	return nil
}

// ClearCache removes the cached entry for service. Clearing a missing entry
// succeeds.
func (r *Resolver) ClearCache(ctx context.Context, service string) error {
	if service == "" {
		return errors.InvalidInput("service", "service must not be empty")
	}
	key := r.CacheKey(service)
	if err := r.cache.Delete(ctx, key); err != nil {
		r.metrics.recordBackendError(ctx, "cache", "delete")
		return errors.CacheUnavailable("delete", err).WithDetail("key", key)
	}
	r.log.WithContext(ctx).Info("cache entry cleared", logger.Fields(logger.FieldKey, key))
	return nil
}
