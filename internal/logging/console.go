package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes one line per record for people reading the log file:
//
//	2026-03-01T09:30:00Z INFO tagstore: wrote tags <artist-separator> file=/music/a.flac run=1a2b3c4d
//
// The component prefixes the message, the rule follows it in angle brackets
// and the run ID closes the line, shortened to eight characters.
type consoleHandler struct {
	out       *syncWriter
	level     slog.Leveler
	addSource bool
	group     string
	parts     lineParts
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) write(p []byte) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	_, err := sw.w.Write(p)
	return err
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{out: &syncWriter{w: w}, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	parts := h.parts
	parts.fields = slices.Clone(h.parts.fields)
	record.Attrs(func(attr slog.Attr) bool {
		parts.add(h.group, attr)
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf := make([]byte, 0, 128+len(parts.fields))
	buf = ts.UTC().AppendFormat(buf, time.RFC3339)
	buf = append(buf, ' ')
	buf = append(buf, record.Level.String()...)
	buf = append(buf, ' ')
	if parts.component != "" {
		buf = append(buf, parts.component...)
		buf = append(buf, ": "...)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	buf = append(buf, msg...)
	if parts.rule != "" {
		buf = append(buf, " <"...)
		buf = append(buf, parts.rule...)
		buf = append(buf, '>')
	}
	if h.addSource {
		if src := record.Source(); src != nil {
			buf = fmt.Appendf(buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	buf = append(buf, parts.fields...)
	if parts.runID != "" {
		buf = append(buf, " run="...)
		buf = append(buf, shortRunID(parts.runID)...)
	}
	buf = append(buf, '\n')
	return h.out.write(buf)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.parts.fields = slices.Clone(h.parts.fields)
	for _, attr := range attrs {
		clone.parts.add(h.group, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.group + name + "."
	return &clone
}

// lineParts collects the promoted fields and the rendered " key=value" pairs
// of one line.
type lineParts struct {
	component string
	rule      string
	runID     string
	fields    []byte
}

func (p *lineParts) add(group string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			group += attr.Key + "."
		}
		for _, child := range attr.Value.Group() {
			p.add(group, child)
		}
		return
	}
	if group == "" {
		switch attr.Key {
		case FieldComponent:
			// The outermost component names the line.
			if p.component == "" {
				p.component = attr.Value.String()
			}
			return
		case FieldRule:
			p.rule = attr.Value.String()
			return
		case FieldRunID:
			p.runID = attr.Value.String()
			return
		}
	}
	p.fields = append(p.fields, ' ')
	p.fields = append(p.fields, group...)
	p.fields = append(p.fields, attr.Key...)
	p.fields = append(p.fields, '=')
	p.fields = appendValue(p.fields, attr.Value)
}

func appendValue(buf []byte, v slog.Value) []byte {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsFunc(s, needsQuote) {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func needsQuote(r rune) bool {
	return r <= ' ' || r == '=' || r == '"'
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
