package log

const (
	// LogFormatPlain defines a logging format used for human-readable,
	// colored output.
	LogFormatPlain = "plain"

	// LogFormatJSON defines a logging format for structured JSON output.
	LogFormatJSON = "json"

	// Supported log levels.
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Logger defines a generic logging interface compatible with Trinity.
type Logger interface {
	Debug(msg string, keyVals ...interface{})
	Info(msg string, keyVals ...interface{})
	Error(msg string, keyVals ...interface{})

	With(keyVals ...interface{}) Logger
}
