// Package version reports the build version of the locus binary. Values
// are injected with -ldflags and completed from the Go build info.
package version
