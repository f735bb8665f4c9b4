package log

import (
	"testing"

	"github.com/rs/zerolog"
)

// NewTestingLogger converts a testing.T into a logging interface to make test
// failures and verbose provide better feedback associated with test failures.
// This logging instance is safe for use from multiple threads, but in general
// you should create one of these loggers ONCE for each *testing.T instance
// that you interact with.
//
// By default it collects only ERROR messages, or DEBUG messages in verbose
// mode, and relies on the underlying behavior of testing.T.Log().
func NewTestingLogger(t testing.TB) Logger {
	level := LogLevelError
	if testing.Verbose() {
		level = LogLevelDebug
	}

	return NewTestingLoggerWithLevel(t, level)
}

// NewTestingLoggerWithLevel creates a testing logger instance at a specific
// level that wraps the behavior of testing.T.Log().
func NewTestingLoggerWithLevel(t testing.TB, level string) Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		t.Fatalf("failed to parse log level (%s): %v", level, err)
	}

	return defaultLogger{
		Logger: zerolog.New(newTestingWriter(t)).Level(logLevel),
	}
}

type testingWriter struct {
	t testing.TB
}

func newTestingWriter(t testing.TB) testingWriter {
	return testingWriter{t: t}
}

func (w testingWriter) Write(b []byte) (int, error) {
	size := len(b)
	w.t.Log(string(b))
	return size, nil
}
