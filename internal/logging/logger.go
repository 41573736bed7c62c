// ABOUTME: Process-wide logrus configuration: level, JSON formatting, and rotated log files.
// ABOUTME: Logs go to stderr by default so stdout stays free for command and MCP output.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName   string
	LogToStderr   bool
	LogLevel      string
	LogFormatJSON bool
}

// Setup configures the standard logrus logger. The returned closer releases the
// log file, if one was opened.
func Setup(params LoggerSetupParams) io.Closer {
	return SetupLogger(logrus.StandardLogger(), params)
}

// SetupLogger configures l the way Setup configures the standard logger.
func SetupLogger(l *logrus.Logger, params LoggerSetupParams) io.Closer {
	if params.LogFormatJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	l.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		l.SetOutput(os.Stderr)
		return nopCloser{}
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:  params.LogFileName,
		MaxSize:   50,    // megabytes
		LocalTime: false, // false -> use UTC
		Compress:  true,
	}

	if params.LogToStderr {
		l.SetOutput(io.MultiWriter(os.Stderr, lumberJackLogger))
	} else {
		l.SetOutput(lumberJackLogger)
	}
	return lumberJackLogger
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.TraceLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
