package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes leveled lines for one broca component into the session log
// file. Every component of a process shares the same file.
//
// All log methods (Debugf, Infof, Warnf, Errorf) write unconditionally.
// There is no level filtering.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	// Global session ID for the current process
	sessionID     string
	sessionIDOnce sync.Once

	// logDir is the directory where log files are stored. Empty means
	// ~/.broca/logs.
	logDir string

	initOnce sync.Once
	initDone bool
	initErr  error
)

// SetDirectory points the session log at dir. It must be called before the
// first NewLogger; later calls have no effect.
func SetDirectory(dir string) {
	if dir != "" && !initDone {
		logDir = dir
	}
}

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// initLogDirectory resolves and creates the log directory once.
func initLogDirectory() error {
	initOnce.Do(func() {
		initDone = true
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				initErr = fmt.Errorf("failed to get home directory: %w", err)
				return
			}
			logDir = filepath.Join(homeDir, ".broca", "logs")
		}
		if err := os.MkdirAll(logDir, 0o750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}
	})
	return initErr
}

// NewLogger creates a logger for component writing to
// <log dir>/<session-id>-broca.log.
//
// If the log directory cannot be created or the file cannot be opened, it
// returns a logger writing to stderr together with the error.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	sessID := getSessionID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-broca.log", sessID))

	// Append mode: several components share the file.
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, err), err
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}, nil
}

func newFallbackLogger(component string, err error) *Logger {
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	logger.Printf("WARNING: file logging unavailable: %v", err)

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		logger:    logger,
	}
}

func (l *Logger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

// Printf logs at INFO level.
func (l *Logger) Printf(format string, v ...interface{}) { l.write("INFO", format, v...) }

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) { l.write("DEBUG", format, v...) }

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) { l.write("INFO", format, v...) }

// Warnf logs a warning-level message. Store scan warnings arrive here.
func (l *Logger) Warnf(format string, v ...interface{}) { l.write("WARN", format, v...) }

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) { l.write("ERROR", format, v...) }

// Writer returns the underlying destination.
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return l.file
	}
	return os.Stderr
}

// SessionID returns the current session ID
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file, or "" in fallback mode.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// GetSessionID returns the current global session ID
func GetSessionID() string {
	return getSessionID()
}

// GetLogDirectory returns the directory where logs are stored
func GetLogDirectory() (string, error) {
	if err := initLogDirectory(); err != nil {
		return "", err
	}
	return logDir, nil
}
