package device

import "github.com/btcsuite/btclog"

// log is the package logger. Logging is disabled until the caller wires a
// backend through UseLogger.
var log = btclog.Disabled

// UseLogger sets the package logger.
func UseLogger(logger btclog.Logger) {
	log = logger
}
