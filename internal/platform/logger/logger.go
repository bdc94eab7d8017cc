package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. JSON on stdout keeps log
// aggregation simple; swap the handler here if a different sink is needed.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
