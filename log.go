package stage

import (
	"fmt"
	"io"
	"os"
)

// logger writes prefixed diagnostic lines. Warnings are always written;
// debug lines only when debug is enabled.
type logger struct {
	out   io.Writer
	debug bool
}

func newLogger(debug bool) logger {
	return logger{out: os.Stderr, debug: debug}
}

func (l logger) warnf(format string, args ...any) {
	l.write("warning: ", format, args...)
}

func (l logger) debugf(format string, args ...any) {
	if !l.debug {
		return
	}
	l.write("", format, args...)
}

func (l logger) write(level, format string, args ...any) {
	if l.out == nil {
		return
	}
	_, _ = fmt.Fprintf(l.out, "[stage] "+level+format+"\n", args...)
}
