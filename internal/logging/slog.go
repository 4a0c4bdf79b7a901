package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// consoleOut receives log output when no log file is configured.
var consoleOut io.Writer = os.Stderr

// SlogManager manages slog-based logging for the command line tools.
type SlogManager struct {
	logger *slog.Logger
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// rfc3339UTC renders record timestamps as RFC3339 in UTC.
func rfc3339UTC(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
		}
	}
	return a
}

// Setup initializes the logging system. Without a file every record at level
// goes to the console. With a file the file receives every record at level
// and the console keeps only warnings and errors. If provider is not nil its
// attributes are added to every record.
func (m *SlogManager) Setup(file io.Writer, level string, provider ContextProvider) {
	lvl := parseLevel(level)

	var handlers []slog.Handler
	if file != nil {
		handlers = append(handlers,
			slog.NewTextHandler(file, &slog.HandlerOptions{Level: lvl, ReplaceAttr: rfc3339UTC}),
			slog.NewTextHandler(consoleOut, &slog.HandlerOptions{Level: max(lvl, slog.LevelWarn), ReplaceAttr: rfc3339UTC}),
		)
	} else {
		handlers = append(handlers, slog.NewTextHandler(consoleOut, &slog.HandlerOptions{Level: lvl, ReplaceAttr: rfc3339UTC}))
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if provider != nil {
		handler = NewContextHandler(handler, provider)
	}

	m.logger = slog.New(handler)
	m.logger.Debug("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}
