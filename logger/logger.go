package logger

import (
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// enable pretty printing for interactive terminals and json for production.
func init() {
	// for tty terminal enable pretty logs
	if isatty.IsTerminal(os.Stdout.Fd()) && runtime.GOOS != "windows" {
		Log = Log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		// UNIX Time is faster and smaller than most timestamps
		zerolog.TimeFieldFormat = ""
	}
	// by default only log warnings and up
	Log = Log.Level(zerolog.WarnLevel)
}

// SetLogLevel sets the logging level from a zerolog level string such as
// "disabled", "error", "warn", "info" or "debug".
func SetLogLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	Log = Log.Level(l)
	return nil
}

func SetLogOutput(w io.Writer) {
	Log = Log.Output(w)
}
