package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LogFilePath names the log file of one run as
// <tool>.<command>.<start>.log inside logsDir, with start in UTC so runs
// sort the same on every host. The command part is left out when empty.
func LogFilePath(logsDir, toolName, command string, start time.Time) string {
	stamp := start.UTC().Format("20060102_150405")
	if command == "" {
		return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", toolName, stamp))
	}
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.%s.log", toolName, command, stamp))
}

// OpenLogFile opens path for appending and creates it, along with any missing
// parent directories, when it does not exist.
func OpenLogFile(path string) (*os.File, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
