package sentry

import (
	"io"
	"regexp"
	"strings"
	"sync"

	gosentry "github.com/getsentry/sentry-go"
)

// Level represents the severity level for the sentry writer.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// logLine matches the "PREFIX:date time file.go:line: message" lines written by
// the log package.
var logLine = regexp.MustCompile(`^[A-Z]+:\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} ([\w.-]+)\.go:\d+: (.*)$`)

// outline is the open document, attached to every breadcrumb and event.
var outline struct {
	sync.Mutex
	document string
	markers  int
}

func setOutline(document string, markers int) {
	outline.Lock()
	defer outline.Unlock()
	outline.document = document
	outline.markers = markers
}

func currentOutline() (string, int) {
	outline.Lock()
	defer outline.Unlock()
	return outline.document, outline.markers
}

// Writer wraps an io.Writer and forwards log messages to Sentry.
// Errors become Sentry events; warnings and info become breadcrumbs.
type Writer struct {
	inner io.Writer
	level Level
}

// NewWriter creates a Writer that tees to inner and forwards to Sentry.
func NewWriter(inner io.Writer, level Level) *Writer {
	return &Writer{inner: inner, level: level}
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.inner.Write(p)

	if !enabled {
		return n, err
	}
	crumb := breadcrumb(w.level, string(p))
	if crumb == nil {
		return n, err
	}

	if w.level == LevelError {
		gosentry.WithScope(func(scope *gosentry.Scope) {
			if doc, ok := crumb.Data["document"].(string); ok {
				scope.SetTag("document", doc)
			}
			scope.SetTag("source", crumb.Category)
			gosentry.CaptureMessage(crumb.Message)
		})
		return n, err
	}
	gosentry.AddBreadcrumb(crumb)
	return n, err
}

// breadcrumb turns one log line into a breadcrumb. The category is the source
// file that logged it (reconcile, sqlite, config, ...), and the open document
// rides along in Data. Blank lines yield nil.
func breadcrumb(level Level, line string) *gosentry.Breadcrumb {
	msg := strings.TrimSpace(line)
	if msg == "" {
		return nil
	}
	category := "log"
	if m := logLine.FindStringSubmatch(msg); m != nil {
		category, msg = m[1], m[2]
	}

	crumb := &gosentry.Breadcrumb{
		Level:    gosentry.LevelInfo,
		Category: category,
		Message:  msg,
	}
	switch level {
	case LevelWarning:
		crumb.Level = gosentry.LevelWarning
	case LevelError:
		crumb.Level = gosentry.LevelError
	}
	if doc, markers := currentOutline(); doc != "" {
		crumb.Data = map[string]interface{}{
			"document": doc,
			"markers":  markers,
		}
	}
	return crumb
}
