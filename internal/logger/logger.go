package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu sync.RWMutex

	debugLogger *log.Logger

	DebugEnabled = false

	logFile *os.File
)

// InitLogging sets up logging based on configuration.
func InitLogging(debugMode bool, logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	DebugEnabled = debugMode

	if DebugEnabled && logPath != "" {
		logDir := filepath.Dir(logPath)
		err := os.MkdirAll(logDir, 0o755)
		if err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		logFile = f
		debugLogger = log.New(f, "filemat ", log.Ldate|log.Ltime|log.Lshortfile)
	}

	return nil
}

// SetOutput routes log lines to w and enables logging. Passing nil disables it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if w == nil {
		DebugEnabled = false
		debugLogger = nil
		return
	}

	DebugEnabled = true
	debugLogger = log.New(w, "filemat ", 0)
}

// Close closes the log file if open.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func printf(level, format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()

	if DebugEnabled && debugLogger != nil {
		debugLogger.Output(3, fmt.Sprintf("["+level+"] "+format, v...))
	}
}

func Infof(format string, v ...interface{}) {
	printf("INFO", format, v...)
}

// Errorf logs an error message to the file if debug mode is enabled.
func Errorf(format string, v ...interface{}) {
	printf("ERROR", format, v...)
}

func Debugf(format string, v ...interface{}) {
	printf("DEBUG", format, v...)
}

func Warnf(format string, v ...interface{}) {
	printf("WARNING", format, v...)
}
