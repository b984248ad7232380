package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/xh3b4sd/tracer"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns the root logger writing to stderr.
func New(lev string, frm string) (zerolog.Logger, error) {
	return Writer(os.Stderr, lev, frm)
}

// Writer returns the root logger writing to w. Empty values select the info
// level and the JSON format.
func Writer(w io.Writer, lev string, frm string) (zerolog.Logger, error) {
	var err error

	var lvl zerolog.Level
	{
		if lev == "" {
			lev = zerolog.InfoLevel.String()
		}

		lvl, err = zerolog.ParseLevel(lev)
		if err != nil {
			return zerolog.Nop(), tracer.Maskf(invalidLevelError, "%s", lev)
		}
	}

	switch frm {
	case "", FormatJSON:
	case FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), tracer.Maskf(invalidFormatError, "%s", frm)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
