package logging

import (
	"io"
	"log/slog"
	"time"
)

func newJSONHandler(out io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey && len(groups) == 0 {
				if t, ok := attr.Value.Any().(time.Time); ok {
					attr.Value = slog.StringValue(t.UTC().Format(time.RFC3339Nano))
				}
			}
			return attr
		},
	})
}
