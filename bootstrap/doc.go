// Package bootstrap runs the lifecycle of a locus process: it validates
// the config, initializes logging, starts registered components, runs
// hooks and shuts everything down in reverse order.
//
// Long-running processes use Run; one-shot CLI commands use RunTask.
package bootstrap
