// Package logging provides the leveled, component-tagged logger used across
// sportwatch. Lines go to stdout and, when configured, a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Field is a key-value pair appended to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger settings, read from the [logging] config section.
type Config struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns the logging defaults: info level, 10 MB files,
// 5 backups, file path resolved under the user config dir at New time.
func DefaultConfig() Config {
	return Config{Level: "info", MaxSizeMB: 10, MaxBackups: 5}
}

// Logger writes structured lines of the form
//
//	2024-01-15T09:30:00Z [INFO] [scanner] scan complete | accepted=12
//
// to stdout and the log file. All methods are safe for concurrent use.
type Logger struct {
	mu         sync.Mutex
	level      Level
	out        io.Writer
	file       *os.File
	filePath   string
	maxSize    int64
	maxBackups int
}

// New creates a Logger from cfg. An empty File falls back to
// <user config dir>/sportwatch/logs/sportwatch.log.
func New(cfg Config) (*Logger, error) {
	l := &Logger{
		level:      ParseLevel(cfg.Level),
		out:        os.Stdout,
		maxSize:    int64(cfg.MaxSizeMB) * 1024 * 1024,
		maxBackups: cfg.MaxBackups,
	}
	if l.maxSize <= 0 {
		l.maxSize = 10 * 1024 * 1024
	}
	if l.maxBackups <= 0 {
		l.maxBackups = 5
	}

	path := cfg.File
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("unable to get config dir: %w", err)
		}
		path = filepath.Join(configDir, "sportwatch", "logs", "sportwatch.log")
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("unable to get home dir: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	l.filePath = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

// Nop returns a logger that discards everything, for tests and optional
// collaborators.
func Nop() *Logger {
	return &Logger{level: LevelError + 1, out: io.Discard}
}

func (l *Logger) open() error {
	f, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	l.file = f
	l.out = io.MultiWriter(os.Stdout, f)
	return nil
}

// rotateLocked rotates the file when it has outgrown maxSize. Callers hold mu.
func (l *Logger) rotateLocked() error {
	if l.file == nil {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < l.maxSize {
		return nil
	}
	l.file.Close()
	if err := rotateFiles(l.filePath, l.maxBackups); err != nil {
		return err
	}
	return l.open()
}

func (l *Logger) write(level Level, component, msg string, err error, fields []Field) {
	if level < l.level {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format(time.RFC3339))
	fmt.Fprintf(&sb, " [%s] [%s] %s", level, component, msg)
	if err != nil {
		fmt.Fprintf(&sb, " | error=%v", err)
	}
	for _, f := range fields {
		fmt.Fprintf(&sb, " | %s=%v", f.Key, f.Value)
	}
	sb.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if rotErr := l.rotateLocked(); rotErr != nil {
		fmt.Fprintf(os.Stderr, "log rotation error: %v\n", rotErr)
	}
	io.WriteString(l.out, sb.String())
}

// Debug logs at debug level.
func (l *Logger) Debug(component, msg string, fields ...Field) {
	l.write(LevelDebug, component, msg, nil, fields)
}

// Info logs at info level.
func (l *Logger) Info(component, msg string, fields ...Field) {
	l.write(LevelInfo, component, msg, nil, fields)
}

// Warn logs at warn level.
func (l *Logger) Warn(component, msg string, fields ...Field) {
	l.write(LevelWarn, component, msg, nil, fields)
}

// Error logs at error level with an attached error.
func (l *Logger) Error(component, msg string, err error, fields ...Field) {
	l.write(LevelError, component, msg, err, fields)
}

// SetLevel changes the log level, e.g. when --verbose is set after the
// config-derived logger exists.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// FilePath returns the resolved log file path.
func (l *Logger) FilePath() string {
	return l.filePath
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
