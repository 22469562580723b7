// Package logger provides structured logging for typedhttp using zerolog.
//
// Loggers are component scoped: the registrar, the client factory and the
// auth helpers each log through their own named logger.
//
// # Configuration
//
//	logger:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("clientfactory")
//	log.Debug("handler built", logger.Fields("client", name, "duration_ms", 3))
package logger
