// Package component defines the lifecycle contract shared by the cache,
// discovery and HTTP server parts of locus, and a Registry that starts them
// in order, stops them in reverse and aggregates their health.
package component
