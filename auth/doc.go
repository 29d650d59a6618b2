// Package auth issues and verifies the bearer tokens that guard the locus
// HTTP API.
//
// Tokens are HMAC-signed JWTs carrying a list of scopes. Any valid token may
// resolve and read; writing or clearing cache entries needs ScopeCacheWrite.
//
//	svc, err := auth.NewService(cfg)
//	token, err := svc.Issue("deploy-bot", time.Hour, auth.ScopeCacheWrite)
//	claims, err := svc.Verify(token)
package auth
