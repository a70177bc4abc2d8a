package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// LogFileLayout names log files after the time the program started.
const LogFileLayout = "20060102_150405"

// NewLogger logs to w and, when dir is set, to a new <timestamp>.log file in
// dir. The returned close function flushes and closes the file.
func NewLogger(w io.Writer, dir string, level log.Level) (*log.Logger, func() error, error) {
	closer := func() error { return nil }
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		name := filepath.Join(dir, time.Now().Format(LogFileLayout)+".log")
		file, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(w, file)
		closer = file.Close
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return logger, closer, nil
}
