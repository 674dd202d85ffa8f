package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger. When LOG_FILE is set the output is
// duplicated into a rotated file.
func NewLogger(cfg *Config) *slog.Logger {
	writers := []io.Writer{os.Stdout}
	if cfg.Log.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}
	w := io.MultiWriter(writers...)

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Log.Level),
		AddSource: cfg.IsDevelopment(),
	}

	var h slog.Handler
	if strings.EqualFold(cfg.Log.Format, "text") || (cfg.IsDevelopment() && cfg.Log.Format == "") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("service", "studio-backend"),
		slog.String("env", cfg.Env),
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
