package contracts

import "time"

// LogLevel represents the severity level for logging.
// The zero value means "not set" and is replaced by InfoLevel when options are applied.
type LogLevel int

const (
	// DebugLevel logs every dispatched event and every wait.
	DebugLevel LogLevel = iota + 1
	// InfoLevel indicates informational messages such as playback start and end.
	InfoLevel
	// WarnLevel indicates potentially harmful situations, e.g. a failed silencing send.
	WarnLevel
	// ErrorLevel indicates errors that abort playback.
	ErrorLevel
	// FatalLevel logs and terminates the application.
	FatalLevel
)

// String returns the lower-case level name used by the CLI flags.
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	}
	return "unset"
}

// ParseLogLevel converts a level name into a LogLevel, defaulting to InfoLevel.
func ParseLogLevel(name string) LogLevel {
	for l := DebugLevel; l <= FatalLevel; l++ {
		if l.String() == name {
			return l
		}
	}
	return InfoLevel
}

// LogDestination specifies where the log messages should be directed.
type LogDestination string

const (
	// ConsoleLog directs log messages to stderr.
	ConsoleLog LogDestination = "console"
	// FileLog directs log messages to a file.
	FileLog LogDestination = "file"
)

// Field is a typed key/value pair attached to a log entry.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	Float64(key string, val float64) Field
	String(key string, val string) Field
	Time(key string, val time.Time) Field
	Duration(key string, val time.Duration) Field
	Int64(key string, val int64) Field
	Error(key string, val error) Field
	Uint64(key string, val uint64) Field
	Uint32(key string, val uint32) Field
	Uint8(key string, val uint8) Field
	Bytes(key string, val []byte) Field
}

// Logger records messages at different levels.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Field() Field

	SetLevel(level LogLevel)
	SetDestination(dest LogDestination, filePath ...string)
	Sync() error
}
