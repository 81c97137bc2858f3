package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/natefinch/lumberjack"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("main")

var stderrLogFormat = logging.MustStringFormatter(
	`%{color:reset}%{color}%{time:15:04:05.000} [%{shortfunc}] [%{level}] %{message}%{color:reset}`,
)

var fileLogFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} [%{shortfunc}] [%{level}] %{message}`,
)

// setupLogging sends log records at level and above to stderr and, when
// file is set, to a rotating log file.
func setupLogging(stderr io.Writer, level, file string) error {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		return err
	}

	format := fileLogFormat
	if isTerminal(stderr) {
		format = stderrLogFormat
	}
	backends := []logging.Backend{
		logging.NewBackendFormatter(logging.NewLogBackend(stderr, "", 0), format),
	}
	if file != "" {
		w := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
		backends = append(backends, logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), fileLogFormat))
	}
	logging.SetBackend(backends...)
	logging.SetLevel(lvl, "")
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
