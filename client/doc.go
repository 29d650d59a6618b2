// Package client is a Go client for the locus HTTP API. It resolves
// services and manages cache entries on a remote locus server, with
// optional TLS and retry/circuit breaking around each call.
//
//	c, err := client.New(client.Config{BaseURL: "http://locus:8080"}, log)
//	res, err := c.Resolve(ctx, "dimi", "back")
package client
