package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options configures a logger. Zero value logs info+ as text to stderr.
type Options struct {
	// Level is a logrus level name (debug|info|warn|error). Empty means info.
	Level string
	// JSON selects the JSON formatter instead of text.
	JSON bool
	// Out overrides the destination. Nil means stderr.
	Out io.Writer
}

func New(opts Options) (*logrus.Logger, error) {
	l := logrus.New()
	if opts.Out != nil {
		l.SetOutput(opts.Out)
	} else {
		l.SetOutput(os.Stderr)
	}
	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl := logrus.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	l.SetLevel(lvl)
	return l, nil
}

// Discard returns a logger that drops everything. Interactive surfaces use it when no
// debug log was requested, since writing to the terminal would corrupt the screen.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// OpenFile returns a debug-level logger appending to path, plus a close func.
// An empty path yields Discard().
func OpenFile(path string) (*logrus.Logger, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Discard(), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	l, err := New(Options{Level: "debug", Out: f})
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return l, f.Close, nil
}
