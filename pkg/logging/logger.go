// Package logging writes the session log of a slideshow run.
//
// Every process gets one session id and one file,
// ~/.slides/logs/<session-id>-slides.log. Components log through child
// loggers that share that file: a scheduler hands its store a logger scoped
// to the collection it plays, so entries read
//
//	[2025-01-02 15:04:05.000] [content] [DEBUG] page 2 appended 25 items collection=atlas
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Level orders log entries by severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

// ParseLevel accepts debug, info, warn or error in any case. The empty
// string is debug.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelDebug, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
}

// sink is the output shared by a logger and all of its children.
type sink struct {
	mu        sync.Mutex
	out       *log.Logger
	file      *os.File
	path      string
	min       atomic.Int32
	closeOnce sync.Once
}

func newSink(w io.Writer, file *os.File, path string) *sink {
	return &sink{out: log.New(w, "", 0), file: file, path: path}
}

func (s *sink) write(entry string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Println(entry)
}

type field struct {
	key   string
	value any
}

// Logger tags entries with a component and optional key=value fields.
// Loggers are cheap values; With and WithField derive children that write
// to the same sink.
type Logger struct {
	sessionID string
	component string
	fields    []field
	sink      *sink
}

var (
	sessionID     string
	sessionIDOnce sync.Once

	// logDir is resolved once per process
	logDir   string
	initOnce sync.Once
	initErr  error
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

func initLogDirectory() error {
	initOnce.Do(func() {
		if logDir != "" {
			initErr = os.MkdirAll(logDir, 0750)
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			initErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}
		logDir = filepath.Join(home, ".slides", "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return initErr
}

// NewLogger opens the session log file for component. When the file cannot
// be opened it returns a logger writing to stderr together with the error,
// so callers can warn and carry on.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	path := filepath.Join(logDir, getSessionID()+"-slides.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, err), err
	}

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sink:      newSink(file, file, path),
	}, nil
}

func newFallbackLogger(component string, err error) *Logger {
	l := NewWriterLogger(component, os.Stderr)
	l.Warnf("file logging unavailable, using stderr: %v", err)
	return l
}

// NewNopLogger returns a logger that discards everything. Packages use it
// when the caller did not supply one.
func NewNopLogger(component string) *Logger {
	return NewWriterLogger(component, io.Discard)
}

// NewWriterLogger returns a logger that writes entries to w.
func NewWriterLogger(component string, w io.Writer) *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sink:      newSink(w, nil, ""),
	}
}

// With returns a logger for another component. Fields carry over.
func (l *Logger) With(component string) *Logger {
	child := *l
	child.component = component
	return &child
}

// WithField returns a logger that appends key=value to every entry.
func (l *Logger) WithField(key string, value any) *Logger {
	child := *l
	child.fields = append(append([]field(nil), l.fields...), field{key: key, value: value})
	return &child
}

// SetLevel drops entries below level for this logger and every logger
// sharing its output.
func (l *Logger) SetLevel(level Level) {
	l.sink.min.Store(int32(level))
}

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(level Level) bool {
	return int32(level) >= l.sink.min.Load()
}

func (l *Logger) logf(level Level, format string, v ...interface{}) {
	if !l.Enabled(level) {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] [%s] ", time.Now().Format("2006-01-02 15:04:05.000"), l.component, level)
	fmt.Fprintf(&b, format, v...)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.key, f.value)
	}
	l.sink.write(b.String())
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...interface{}) { l.logf(LevelInfo, format, v...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, v ...interface{}) { l.logf(LevelWarn, format, v...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }

// SessionID returns the process session id.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the log file path, or "" when not writing to a file.
func (l *Logger) LogPath() string {
	return l.sink.path
}

// Close closes the log file. Children share the file, so close the root
// logger once at exit. Safe to call more than once.
func (l *Logger) Close() error {
	var err error
	l.sink.closeOnce.Do(func() {
		if l.sink.file != nil {
			err = l.sink.file.Close()
		}
	})
	return err
}

// GetSessionID returns the process session id.
func GetSessionID() string {
	return getSessionID()
}

// GetLogDirectory returns the directory holding session logs.
func GetLogDirectory() (string, error) {
	if err := initLogDirectory(); err != nil {
		return "", err
	}
	return logDir, nil
}
