// Package middleware provides the Gin middleware stack of the locus HTTP API.
package middleware
