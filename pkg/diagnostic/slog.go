package diagnostic

import (
	"context"
	"log/slog"
)

// NewLogSink forwards diagnostics to a structured logger.
func NewLogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return SinkFunc(func(d Diagnostic) {
		attrs := make([]slog.Attr, 0, 6)
		if d.Category != "" {
			attrs = append(attrs, slog.String("category", string(d.Category)))
		}
		if d.File != "" {
			attrs = append(attrs, slog.String("file", d.File))
		}
		if d.Line > 0 {
			attrs = append(attrs, slog.Int("line", d.Line))
		}
		if d.Class != "" {
			attrs = append(attrs, slog.String("class", d.Class))
		}
		if d.Property != "" {
			attrs = append(attrs, slog.String("property", d.Property))
		}
		if d.Err != nil {
			attrs = append(attrs, slog.Any("error", d.Err))
		}
		logger.LogAttrs(context.Background(), level(d.Severity), d.Message, attrs...)
	})
}

func level(sev Severity) slog.Level {
	switch sev {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
