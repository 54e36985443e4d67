// Package logger - глобальный slog-логгер сервиса и загрузчика.
package logger

import (
	"context"
	"log/slog"
	"os"
	"time"
)

var log *slog.Logger

// Init настраивает логгер по окружению:
// development - текст с debug и источником, test - только предупреждения, иначе JSON.
func Init(env string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	switch env {
	case "development":
		opts.Level = slog.LevelDebug
		opts.AddSource = true
		handler = slog.NewTextHandler(os.Stdout, opts)
	case "test":
		opts.Level = slog.LevelWarn
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

func get() *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// Fatal - для старта приложения: пишет ошибку и завершает процесс
func Fatal(msg string, args ...any) {
	get().Error(msg, args...)
	os.Exit(1)
}

// HTTPLog - одна строка на запрос; уровень зависит от статуса ответа
func HTTPLog(ctx context.Context, method, path string, status int, duration time.Duration, args ...any) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	fields := append([]any{
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
	}, args...)
	FromContext(ctx).Log(ctx, level, "http request", fields...)
}

// SegmentLog - итог загрузки одного сегмента дампа
func SegmentLog(model string, count int, duration time.Duration, err error) {
	fields := []any{"model", model, "count", count, "duration_ms", duration.Milliseconds()}
	if err != nil {
		get().Error("segment load failed", append(fields, "error", err.Error())...)
		return
	}
	get().Info("segment loaded", fields...)
}
