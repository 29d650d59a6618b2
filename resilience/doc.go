// Package resilience guards calls to remote dependencies.
//
// A Policy combines, from the outside in, retry with exponential backoff,
// a circuit breaker, a concurrency bulkhead and a token-bucket rate limit.
// Each piece can also be used on its own.
//
//	p := resilience.NewPolicy("cloudmap", cfg, log)
//	addrs, err := resilience.Execute(ctx, p, func(ctx context.Context) ([]string, error) {
//	    return client.Lookup(ctx, ns, svc)
//	})
package resilience
