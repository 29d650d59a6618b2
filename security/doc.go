// Package security holds the TLS settings of the locus HTTP API, used by
// the server listener and by the Go client.
package security
