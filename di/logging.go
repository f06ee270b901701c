package di

import "log/slog"

// logFunc is the minimal shape container internals need from a logger,
// decoupling lifecycle.go from the concrete *slog.Logger
// type stored on Container.
type logFunc func(msg string, args ...any)

type containerLogger struct {
	slog *slog.Logger
}

func (l containerLogger) log(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

func (l containerLogger) warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

func (l containerLogger) errorf(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// asWarnFunc adapts containerLogger.warn for call sites (lifecycle
// teardown) that only need the warn-level sink.
func (l containerLogger) asWarnFunc() logFunc {
	return l.warn
}
