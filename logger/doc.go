// Package logger provides structured logging for locus using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("locus").WithComponent("resolver")
//	log.Info("resolved", logger.Fields(logger.FieldTarget, "back", logger.FieldSource, "cache"))
package logger
