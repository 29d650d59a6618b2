// Package server exposes the resolver over HTTP.
//
// The API is served by Gin behind an h2c handler:
//
//	GET    /v1/resolve/:namespace/:service
//	GET    /v1/cache/:service
//	PUT    /v1/cache/:service   {"addresses": ["http://10.0.0.1:8080"]}
//	DELETE /v1/cache/:service
//	GET    /v1/static/:service
//	GET    /health
//	GET    /alive
//
// With WithAuth, /v1 requires a bearer token; cache writes need the
// cache:write scope. A certificate in Config.TLS switches to HTTPS.
//
// Errors are written as errors.ErrorResponse with the status carried by the
// AppError.
package server
