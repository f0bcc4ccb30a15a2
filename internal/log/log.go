package log

import (
	"context"
	"github.com/cottand/tcore/types"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
)

var (
	sectionsMu      sync.RWMutex
	enabledSections = []string{
		"relation",
		"instantiate",
	}
)

var level = new(slog.LevelVar)

var LoggerOpts = &slog.HandlerOptions{
	AddSource: false,
	Level:     level,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == "time" {
			return slog.Attr{}
		}
		return a
	},
}

var DefaultLogger = NewLogger(os.Stderr)

// NewLogger returns a section-filtered logger writing text records to w.
// Types passed as attributes are only rendered if the record is written.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(&filteringHandler{underlying: types.SlogHandler(slog.NewTextHandler(w, LoggerOpts))})
}

// SetLevel sets the level of every logger built by this package
func SetLevel(l slog.Level) { level.Set(l) }

// EnableSections replaces the sections whose records below Warn are written.
// A record's section matches if it has an enabled section as a prefix.
func EnableSections(sections ...string) {
	sectionsMu.Lock()
	defer sectionsMu.Unlock()
	enabledSections = slices.Clone(sections)
}

func sectionEnabled(section string) bool {
	sectionsMu.RLock()
	defer sectionsMu.RUnlock()
	return slices.ContainsFunc(enabledSections, func(enabled string) bool {
		return strings.HasPrefix(section, enabled)
	})
}

var _ slog.Handler = &filteringHandler{}

type filteringHandler struct {
	underlying slog.Handler
	sections   []string
}

func (f filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return f.underlying.Enabled(ctx, level)
}

func (f filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn {
		return f.underlying.Handle(ctx, record)
	}
	// sections bound with WithAttrs count as well as the record's own
	wantSection := slices.ContainsFunc(f.sections, sectionEnabled)
	if !wantSection {
		record.Attrs(func(attr slog.Attr) bool {
			wantSection = attr.Key == "section" && sectionEnabled(attr.Value.String())
			// iterate as long as we have not found our section
			return !wantSection
		})
	}
	if !wantSection {
		return nil
	}
	return f.underlying.Handle(ctx, record)
}

func (f filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(attrs))
	sections := slices.Clone(f.sections)

	// keep the section attribute in filteringHandler
	for _, attr := range attrs {
		if attr.Key == "section" {
			sections = append(sections, attr.Value.String())
		}
		newAttrs = append(newAttrs, attr)
	}
	return &filteringHandler{
		underlying: f.underlying.WithAttrs(newAttrs),
		sections:   sections,
	}
}

func (f filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{
		underlying: f.underlying.WithGroup(name),
		sections:   f.sections,
	}
}
