package logger

import (
	"io"
	"log"
)

// Logger is the leveled logger used by the command line tool.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// DefaultLogger writes through the standard log package. Debug lines are
// dropped unless verbose is set.
type DefaultLogger struct {
	name    string
	verbose bool
	out     *log.Logger
}

// NewDefaultLogger writes to w with name as prefix; Debug lines need verbose.
func NewDefaultLogger(name string, w io.Writer, verbose bool) *DefaultLogger {
	return &DefaultLogger{name: name, verbose: verbose, out: log.New(w, "", log.LstdFlags)}
}

func (d *DefaultLogger) Debug(format string, args ...any) {
	if d.verbose {
		d.out.Printf("[DEBUG] "+d.name+" | "+format+"\n", args...)
	}
}

func (d *DefaultLogger) Info(format string, args ...any) {
	d.out.Printf("[INFO] "+d.name+" | "+format+"\n", args...)
}

func (d *DefaultLogger) Error(format string, args ...any) {
	d.out.Printf("[ERROR] "+d.name+" | "+format+"\n", args...)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Error(string, ...any) {}
