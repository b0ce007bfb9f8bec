package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var level slog.LevelVar

var log atomic.Pointer[slog.Logger]

func init() {
	level.Set(slog.LevelInfo)
	log.Store(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &level})))
}

// Init sets the global log level. Unknown values keep the default (info).
func Init(lvl string) {
	switch strings.ToLower(lvl) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}
}

func Debug(msg string, args ...any) {
	log.Load().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	log.Load().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Load().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Load().Error(msg, normalize(args)...)
}

// normalize accepts loose call sites: callers may pass key-value pairs or a
// bare error as the trailing argument.
func normalize(args []any) []any {
	if len(args)%2 == 0 {
		return args
	}
	last := args[len(args)-1]
	out := make([]any, 0, len(args)+1)
	out = append(out, args[:len(args)-1]...)
	return append(out, "error", last)
}
