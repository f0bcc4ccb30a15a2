package types

import (
	"context"
	"log/slog"
)

// Slog wraps a Type as a slog.LogValuer to not render type strings
// unless they definitely need to be logged
func Slog(t Type) slog.LogValuer { return typeLogValuer{t} }

type typeLogValuer struct{ Type }

func (l typeLogValuer) LogValue() slog.Value {
	if l.Type == nil {
		return slog.StringValue("<nil>")
	}
	return slog.StringValue(l.Type.String())
}

// SlogHandler is a slog.Handler capable of lazy-printing types passed as attributes
func SlogHandler(underlying slog.Handler) slog.Handler {
	return &typeLogHandler{underlying: underlying}
}

type typeLogHandler struct {
	underlying slog.Handler
}

func (l *typeLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *typeLogHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	// for each attr, add it wrapped in Slog if it is an Any and then a Type
	record.Attrs(func(attr slog.Attr) bool {
		newRecord.Add(wrapAttr(attr))
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *typeLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	for i, attr := range attrs {
		attrs[i] = wrapAttr(attr)
	}
	return SlogHandler(l.underlying.WithAttrs(attrs))
}

func (l *typeLogHandler) WithGroup(name string) slog.Handler {
	return SlogHandler(l.underlying.WithGroup(name))
}

func wrapAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}
	if t, isType := attr.Value.Any().(Type); isType {
		attr.Value = slog.AnyValue(Slog(t))
	}
	return attr
}
