package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habitline/internal/constants"
)

// Logger writes logfmt records to the rotating log file. It is nil until
// Init, and every helper is a no-op before then.
var Logger *log.Logger

var (
	// console mirrors records to stderr on --debug runs.
	console *log.Logger
	file    *lumberjack.Logger
)

type Config struct {
	Debug     bool
	ConfigDir string
}

// Path returns the log file used for configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init opens the log file under cfg.ConfigDir. Habit changes are recorded at
// info level; debug runs add debug records and a stderr mirror.
func Init(cfg Config) error {
	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(file, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.LogfmtFormatter,
		Level:           level,
	})

	console = nil
	if cfg.Debug {
		console = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller: true,
			CallerOffset: 2,
			Prefix:       constants.AppName,
			Level:        log.DebugLevel,
		})
	}
	return nil
}

// Close closes the log file and disables logging until the next Init.
func Close() error {
	f := file
	Logger, console, file = nil, nil, nil
	if f == nil {
		return nil
	}
	return f.Close()
}

func emit(level log.Level, msg string, keyvals []interface{}) {
	if Logger != nil {
		Logger.Log(level, msg, keyvals...)
	}
	if console != nil {
		console.Log(level, msg, keyvals...)
	}
}

func Debug(msg string, keyvals ...interface{}) { emit(log.DebugLevel, msg, keyvals) }

func Info(msg string, keyvals ...interface{}) { emit(log.InfoLevel, msg, keyvals) }

func Warn(msg string, keyvals ...interface{}) { emit(log.WarnLevel, msg, keyvals) }

func Error(msg string, keyvals ...interface{}) { emit(log.ErrorLevel, msg, keyvals) }
