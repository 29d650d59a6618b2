// Package resolver turns a logical service name into a reachable URL.
//
// Resolve walks three tiers in order and stops at the first that answers:
//
//  1. a static override map fixed at construction;
//  2. a shared cache holding the JSON-encoded address list under
//     "locus-<service>";
//  3. a discovery backend, whose non-empty answer is written back to the
//     cache before one address is picked.
//
// When a tier yields several addresses one is chosen uniformly at random.
// Finding nothing is not an error: the returned Resolution reports
// Found() == false.
//
// The cache and discovery backends are interfaces. The redis package and
// MemoryStore implement CacheStore; the discovery packages implement
// DiscoveryClient.
//
//	r, err := resolver.New(store, disco, resolver.WithStatic(map[string]string{
//	    "back": "http://localhost:8080",
//	}))
//	res, err := r.Resolve(ctx, "prod", "back")
//	if err == nil && res.Found() {
//	    fmt.Println(res.URL, res.Source)
//	}
package resolver
