// Package log provides named structured loggers for estimators.
//
// Loggers are backed by zerolog. The global level and output format are
// read from the environment once, on first use:
//
//	CHEMPREP_LOG_LEVEL   trace|debug|info|warn|error (default: info)
//	CHEMPREP_LOG_FORMAT  console|json (default: console)
//
// A .env file in the working directory is loaded if present, so local
// runs can configure logging without touching the shell environment.
package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logging interface consumed by estimators. The variadic
// fields are key-value pairs attached as structured context.
type Logger interface {
	Info(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

var (
	initOnce sync.Once
	root     zerolog.Logger
)

func initRoot() {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	switch strings.ToLower(os.Getenv("CHEMPREP_LOG_LEVEL")) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if strings.ToLower(os.Getenv("CHEMPREP_LOG_FORMAT")) == "json" {
		out = os.Stderr
	}

	root = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// GetLoggerWithName returns a Logger with the given component name
// attached to every event.
//
//	logger := log.GetLoggerWithName("MinMaxScaler")
//	logger.Debug("fitted", "n_features", 3)
func GetLoggerWithName(name string) Logger {
	initOnce.Do(initRoot)
	return &zerologLogger{l: root.With().Str("component", name).Logger()}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z *zerologLogger) Info(msg string, fields ...interface{}) {
	z.emit(z.l.Info(), msg, fields)
}

func (z *zerologLogger) Debug(msg string, fields ...interface{}) {
	z.emit(z.l.Debug(), msg, fields)
}

func (z *zerologLogger) Error(msg string, fields ...interface{}) {
	z.emit(z.l.Error(), msg, fields)
}

func (z *zerologLogger) emit(ev *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, fields[i+1])
	}
	ev.Msg(msg)
}
