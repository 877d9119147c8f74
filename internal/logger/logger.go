package logger

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

type contextKey string

// ActorKey is the context key holding the acting user id
const ActorKey contextKey = "actor"

// Logger wraps logrus for structured logging with context support
type Logger struct {
	*logrus.Entry
}

// New creates a new logger
func New() *Logger {
	return &Logger{
		Entry: logrus.NewEntry(logrus.StandardLogger()),
	}
}

// Setup configures the standard logrus logger with a JSON formatter and the given level
func Setup(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// WithActor returns a context carrying the acting user
func WithActor(ctx context.Context, actor fmt.Stringer) context.Context {
	return context.WithValue(ctx, ActorKey, actor.String())
}

// WithContext creates a logger with user context information
func WithContext(ctx context.Context) *Logger {
	logger := New()

	if actor, ok := ctx.Value(ActorKey).(string); ok && actor != "" {
		logger.Entry = logger.Entry.WithField("user", actor)
	} else {
		logger.Entry = logger.Entry.WithField("user", "system")
	}

	return logger
}

// WithField adds a field to the logger
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		Entry: l.Entry.WithField(key, value),
	}
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		Entry: l.Entry.WithFields(fields),
	}
}

// WithError attaches an error to the logger
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Entry: l.Entry.WithError(err),
	}
}
