// Package log is the structured logger every other package in this
// module writes through. The zero value is a discarding logger, so
// nothing here forces a logging dependency on an embedder that never
// calls SetLogger.
package log

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Level orders log severities; a simpleLogger drops anything below the
// level it was built with.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if int(l) < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Field is one key/value pair attached to a log line. Construct these
// with the helpers below rather than the struct literal directly.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field     { return Field{Key: key, Value: value} }
func Int(key string, value int) Field    { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field  { return Field{Key: key, Value: value} }

// Err wraps err as an "error" field; a nil err still produces the field
// so callers can log.Err(err) unconditionally.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Logger is what every call site in this module depends on. WithFields
// scopes a child logger that always carries the given fields in
// addition to whatever a call passes directly.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
}

type nullLogger struct{}

func (*nullLogger) Debug(string, ...Field)     {}
func (*nullLogger) Info(string, ...Field)      {}
func (*nullLogger) Warn(string, ...Field)      {}
func (*nullLogger) Error(string, ...Field)     {}
func (*nullLogger) WithFields(...Field) Logger { return &nullLogger{} }

// simpleLogger renders one line per call as "timestamp LEVEL message
// key=value ..." to an io.Writer. It has no internal locking of its own:
// every call builds its whole line first and hands it to the sink in a
// single Write, and the sink does no serialization beyond what the
// underlying writer provides.
type simpleLogger struct {
	sink   writeLiner
	level  Level
	fields []Field
}

// writeLiner is the minimal surface simpleLogger needs; satisfied by
// any io.Writer via writerSink.
type writeLiner interface {
	writeLine(line string)
}

type writerSink struct {
	w interface{ Write([]byte) (int, error) }
}

func (s writerSink) writeLine(line string) {
	s.w.Write([]byte(line))
}

// NewSimpleLogger builds a Logger that writes every line at or above
// level to out.
func NewSimpleLogger(out interface{ Write([]byte) (int, error) }, level Level) Logger {
	return &simpleLogger{sink: writerSink{w: out}, level: level}
}

func (s *simpleLogger) render(level Level, msg string, fields []Field) string {
	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, f := range s.fields {
		writeField(&b, f)
	}
	for _, f := range fields {
		writeField(&b, f)
	}
	b.WriteByte('\n')
	return b.String()
}

func writeField(b *strings.Builder, f Field) {
	b.WriteByte(' ')
	b.WriteString(f.Key)
	b.WriteByte('=')
	if f.Value == nil {
		b.WriteString("<nil>")
		return
	}
	switch v := f.Value.(type) {
	case string:
		b.WriteString(v)
	case int:
		b.WriteString(strconv.Itoa(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case error:
		b.WriteString(v.Error())
	default:
		b.WriteString(strconv.Quote(fallbackString(v)))
	}
}

// fallbackString covers Field values this package's constructors never
// produce directly (Duration already stringifies itself, Err already
// extracts .Error()) but that a caller could still hand in via a struct
// literal; %v keeps that path from panicking instead of rendering well.
func fallbackString(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}

func (s *simpleLogger) emit(level Level, msg string, fields []Field) {
	if level < s.level {
		return
	}
	s.sink.writeLine(s.render(level, msg, fields))
}

func (s *simpleLogger) Debug(msg string, fields ...Field) { s.emit(LevelDebug, msg, fields) }
func (s *simpleLogger) Info(msg string, fields ...Field)  { s.emit(LevelInfo, msg, fields) }
func (s *simpleLogger) Warn(msg string, fields ...Field)  { s.emit(LevelWarn, msg, fields) }
func (s *simpleLogger) Error(msg string, fields ...Field) { s.emit(LevelError, msg, fields) }

func (s *simpleLogger) WithFields(fields ...Field) Logger {
	combined := make([]Field, 0, len(s.fields)+len(fields))
	combined = append(combined, s.fields...)
	combined = append(combined, fields...)
	return &simpleLogger{sink: s.sink, level: s.level, fields: combined}
}

// current holds the package-level logger behind an atomic pointer so
// SetLogger/GetLogger never need their own mutex.
var current atomic.Pointer[Logger]

func init() {
	var l Logger = &nullLogger{}
	current.Store(&l)
}

// SetLogger installs l as the package-level logger; nil restores the
// discarding default.
func SetLogger(l Logger) {
	if l == nil {
		l = &nullLogger{}
	}
	current.Store(&l)
}

// GetLogger returns the currently installed package-level logger.
func GetLogger() Logger {
	return *current.Load()
}

// EnableDebugLogging is a convenience for local development: it points
// the package-level logger at stderr with every level enabled.
func EnableDebugLogging() {
	SetLogger(NewSimpleLogger(os.Stderr, LevelDebug))
}

// EnableFileLogging points the package-level logger at path, creating
// or appending to it.
func EnableFileLogging(path string, level Level) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	SetLogger(NewSimpleLogger(f, level))
	return nil
}

func Debug(msg string, fields ...Field) { GetLogger().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { GetLogger().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { GetLogger().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { GetLogger().Error(msg, fields...) }
