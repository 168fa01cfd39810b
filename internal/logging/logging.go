// Package logging wires the app's two log destinations: a prefixed stream on
// stderr for the user and a rotating file under the app directory that keeps
// a history across sessions.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "neurotic-log.txt"

var (
	// Stream logs go to stderr and are what the user sees.
	Stream = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "neurotic",
		Level:  log.InfoLevel,
	})

	// File logs go to the rotating log file only. Configured by Setup; a
	// discard logger until then so early calls are safe.
	File = log.NewWithOptions(io.Discard, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})

	// Download is the sublogger for the remote-file machinery, which is
	// chatty; its threshold is raised unless debug mode lowers it.
	Download = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "neurotic/download",
		Level:  log.ErrorLevel,
	})
)

// Setup points the file logger at the rotating log file inside dir and
// writes the session separator lines that only appear in the file.
func Setup(dir, version string) {
	File.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    10, // megabytes
		MaxBackups: 2,
	})
	File.Info("===========================")
	File.Info("Starting neurotic " + version)
}

// The app logs through these helpers so every record reaches both the user
// on stderr and the session history in the rotating file. The helpers add
// one frame, so the file logger's caller reporting is offset to compensate.

func Debug(msg interface{}, keyvals ...interface{}) {
	Stream.Debug(msg, keyvals...)
	File.Debug(msg, keyvals...)
}

func Info(msg interface{}, keyvals ...interface{}) {
	Stream.Info(msg, keyvals...)
	File.Info(msg, keyvals...)
}

func Warn(msg interface{}, keyvals ...interface{}) {
	Stream.Warn(msg, keyvals...)
	File.Warn(msg, keyvals...)
}

func Error(msg interface{}, keyvals ...interface{}) {
	Stream.Error(msg, keyvals...)
	File.Error(msg, keyvals...)
}

// SetDebug switches both user-facing loggers between the default thresholds
// and the verbose ones. Debug mode also turns on caller reporting in the
// file log so records carry their origin.
func SetDebug(enabled bool) {
	if enabled {
		Stream.SetLevel(log.DebugLevel)
		File.SetLevel(log.DebugLevel)
		File.SetReportCaller(true)
		File.SetCallerOffset(1)
		Download.SetLevel(log.WarnLevel)
	} else {
		Stream.SetLevel(log.InfoLevel)
		File.SetLevel(log.InfoLevel)
		File.SetReportCaller(false)
		Download.SetLevel(log.ErrorLevel)
	}
}

// Debugging reports whether the stream logger currently emits debug records.
func Debugging() bool {
	return Stream.GetLevel() <= log.DebugLevel
}
