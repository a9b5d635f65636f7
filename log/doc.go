// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("evaluation started", slog.String("source", path))
//
// The zero [Logger] discards everything, so components can hold one
// unconditionally and let callers opt in with a configured instance.
//
// # Configuration
//
// Time layout, caller information, level, format, and colorized output are
// fixed when the logger is created, using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden, and
// [Logger.With] one that adds attributes to every message.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is used for per-cell evaluation
// records and is far too verbose for anything but debugging a document.
//
// # Package-level logging
//
// Package-level functions such as [Info] and [ErrorContext] write to a
// default logger that [Config] reconfigures. Context-unaware functions use
// [DefaultContextProvider], which returns [context.TODO] by default.
package log
