package logger

import (
	"log/slog"
	"os"
)

const serviceName = "mealflow"

// New builds the process-wide logger: JSON to stdout at info level, every
// record tagged with the service name.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With(slog.String("service", serviceName))
}
