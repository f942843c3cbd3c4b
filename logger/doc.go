// Package logger provides structured logging over zerolog.
//
// It supports JSON and console output, a configurable level, and
// component-scoped loggers that carry the pipeline's field keys
// (session id, chunk index, provider, language).
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("transcriber")
//	log.Info("chunk transcribed", logger.Fields(logger.FieldChunkIndex, 3))
package logger
