// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package adds a Trace level below Debug, configurable time formatting,
// caller information, and pretty or plain output in text or JSON form, all
// applied at logger creation time using functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("interpreter started", slog.String("script", path))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//
// Package-level functions log through a process-wide default logger, which
// [Config] reconfigures in place.
package log
