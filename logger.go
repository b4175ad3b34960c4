package authgate

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Level is the severity of one log entry.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Fields carries the structured payload of one log entry.
type Fields map[string]any

// Logger is the gateway's log sink. Implementations are fire-and-forget
// and must tolerate concurrent use; the Engine additionally shields itself
// from panicking sinks.
type Logger interface {
	Log(level Level, msg string, fields Fields)
}

// NoOpLogger discards every entry.
type NoOpLogger struct{}

// Log implements Logger.
func (NoOpLogger) Log(Level, string, Fields) {}

type jsonLogger struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewJSONLogger returns a Logger that writes one JSON object per entry to
// out. Writes are serialized; write errors are dropped.
func NewJSONLogger(out io.Writer) Logger {
	return &jsonLogger{out: out, now: time.Now}
}

func (l *jsonLogger) Log(level Level, msg string, fields Fields) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = l.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(line)
}
