package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

const (
	logMaxSize    = 100 * 1024 * 1024 // 100 MB
	logMaxBackups = 3
)

// Logger wraps arbor.ILogger to provide a consistent interface
type Logger struct {
	arbor.ILogger
}

func consoleWriter() models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}
}

// NewLogger creates a console logger with the specified level
func NewLogger(level string) *Logger {
	logger := arbor.NewLogger().
		WithConsoleWriter(consoleWriter()).
		WithLevelFromString(level)
	return &Logger{ILogger: logger}
}

// NewLoggerFromConfig creates a logger with the writers named in cfg.Outputs.
// Falls back to console when no output could be configured.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	logger := arbor.NewLogger()
	configured := false

	for _, output := range cfg.Outputs {
		switch output {
		case "console", "stdout":
			logger = logger.WithConsoleWriter(consoleWriter())
			configured = true
		case "file":
			if cfg.FilePath == "" {
				continue
			}
			if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to create log directory: %v\n", err)
				continue
			}
			logger = logger.WithFileWriter(models.WriterConfiguration{
				Type:             models.LogWriterTypeFile,
				FileName:         cfg.FilePath,
				TimeFormat:       "15:04:05",
				MaxSize:          logMaxSize,
				MaxBackups:       logMaxBackups,
				OutputType:       fileOutputType(cfg.Format),
				DisableTimestamp: false,
			})
			configured = true
		}
	}

	if !configured {
		logger = logger.WithConsoleWriter(consoleWriter())
	}

	return &Logger{ILogger: logger.WithLevelFromString(cfg.Level)}
}

func fileOutputType(format string) models.OutputFormat {
	if format == "json" {
		return models.OutputFormatJSON
	}
	return models.OutputFormatLogfmt
}

// NewSilentLogger creates a logger without writers
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger()}
}
