package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger es la interfaz que usan todos los paquetes
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

type slogLogger struct {
	l *slog.Logger
}

// NewLogger crea un logger de texto con el nivel indicado (debug, info, warn, error).
func NewLogger(level string) Logger {
	return New(os.Stdout, level)
}

func New(w io.Writer, level string) Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &slogLogger{l: slog.New(h)}
}

// Nop descarta todo; para tests.
func Nop() Logger {
	return &slogLogger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (s *slogLogger) Debug(msg string, keyvals ...interface{}) { s.l.Debug(msg, keyvals...) }
func (s *slogLogger) Info(msg string, keyvals ...interface{})  { s.l.Info(msg, keyvals...) }
func (s *slogLogger) Warn(msg string, keyvals ...interface{})  { s.l.Warn(msg, keyvals...) }
func (s *slogLogger) Error(msg string, keyvals ...interface{}) { s.l.Error(msg, keyvals...) }
