package logging

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Factory hands out component loggers that share a level and an output.
type Factory struct {
	level  log.Lvl
	output io.Writer
	closer io.Closer
}

// New creates a factory. With a non-empty file, output goes to a rotating log
// file instead of stderr.
func New(level, file string) *Factory {
	f := &Factory{level: ParseLevel(level), output: os.Stderr}
	if file != "" {
		w := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    32, // MB
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		}
		f.output = w
		f.closer = w
	}
	return f
}

// NewWithOutput creates a factory writing to w.
func NewWithOutput(level string, w io.Writer) *Factory {
	return &Factory{level: ParseLevel(level), output: w}
}

// Logger returns a logger whose lines are tagged with prefix.
func (f *Factory) Logger(prefix string) *log.Logger {
	lg := log.New(prefix)
	lg.SetLevel(f.level)
	lg.SetOutput(f.output)
	lg.SetHeader(`${time_rfc3339} ${level} ${prefix} ${short_file}:${line}`)
	return lg
}

func (f *Factory) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
