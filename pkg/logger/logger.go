// Package logger is the process-wide structured logger. It wraps zerolog behind
// a small key/value facade so business code never touches the backend directly.
//
//	logger.Init("development")
//	logger.Info("Server starting", "address", ":8080")
//	logger.Error("Failed to load cafes", err)
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Init configures the global logger for the given environment.
// "development" and "local" get a console writer at debug level, anything else
// gets JSON at info level.
func Init(env string) {
	InitWithWriter(env, os.Stderr)
}

// InitWithWriter is Init with an explicit output, used by tests.
func InitWithWriter(env string, out io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.MessageFieldName = "message"

	level := zerolog.InfoLevel
	var w io.Writer = out
	switch env {
	case "development", "local":
		level = zerolog.DebugLevel
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	case "test":
		level = zerolog.WarnLevel
	}

	log = zerolog.New(w).Level(level).With().Timestamp().Str("env", env).Logger()
}

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &log
}

func Debug(msg string, args ...any) {
	withFields(get().Debug(), args).Msg(msg)
}

func Info(msg string, args ...any) {
	withFields(get().Info(), args).Msg(msg)
}

func Warn(msg string, args ...any) {
	withFields(get().Warn(), args).Msg(msg)
}

func Error(msg string, args ...any) {
	withFields(get().Error(), args).Msg(msg)
}

// Fatal logs and exits the process.
func Fatal(msg string, args ...any) {
	withFields(get().Fatal(), args).Msg(msg)
}

// withFields attaches alternating key/value pairs. A bare error is logged
// under "error"; a dangling value without a key is logged under argN.
func withFields(e *zerolog.Event, args []any) *zerolog.Event {
	if e == nil {
		return nil
	}
	for i := 0; i < len(args); i++ {
		if err, ok := args[i].(error); ok {
			e = e.Err(err)
			continue
		}
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			e = e.Interface(fmt.Sprintf("arg%d", i), args[i])
			continue
		}
		e = e.Interface(key, args[i+1])
		i++
	}
	return e
}
