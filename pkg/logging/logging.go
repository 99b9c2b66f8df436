// Package logging provides the leveled, timestamped console logger used
// throughout goat-search. It is a direct, colorless port of the original
// Logger's level taxonomy (info/debug/warn/error/perf/net) onto Go's
// standard log.Logger — the teacher repo carries no third-party logging
// dependency either, so this stays on the standard library (see
// DESIGN.md's stdlib justification for pkg/logging).
package logging

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// Level tags a log line with its category. Unlike a severity level, these
// are not ordered or filterable — every level is always printed, matching
// the original's unconditional std::cout writes.
type Level int

const (
	Info Level = iota
	Debug
	Warn
	Error
	Perf
	Net
)

func (l Level) tag() string {
	switch l {
	case Info:
		return "[INFO] "
	case Debug:
		return "[DEBUG]"
	case Warn:
		return "[WARN] "
	case Error:
		return "[ERROR]"
	case Perf:
		return "[PERF] "
	case Net:
		return "[NET]  "
	default:
		return "[?????]"
	}
}

// Logger is a leveled wrapper over a standard log.Logger. The zero value is
// not usable; construct one with New.
type Logger struct {
	mu  sync.Mutex
	out *log.Logger
}

// New creates a Logger writing to w (typically os.Stdout, matching the
// original's std::cout target).
func New(w *os.File) *Logger {
	return &Logger{out: log.New(w, "", 0)}
}

// Default is the process-wide logger used by packages that don't hold a
// reference of their own (pkg/hybrid, pkg/server).
var Default = New(os.Stdout)

func (l *Logger) log(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf("[%s] %s %s", time.Now().Format("15:04:05.000"), level.tag(), msg)
}

func (l *Logger) Info(msg string)  { l.log(Info, msg) }
func (l *Logger) Debug(msg string) { l.log(Debug, msg) }
func (l *Logger) Warn(msg string)  { l.log(Warn, msg) }
func (l *Logger) Error(msg string) { l.log(Error, msg) }
func (l *Logger) Net(msg string)   { l.log(Net, msg) }

func (l *Logger) Infof(format string, args ...any)  { l.log(Info, fmt.Sprintf(format, args...)) }
func (l *Logger) Debugf(format string, args ...any) { l.log(Debug, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(Warn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.log(Error, fmt.Sprintf(format, args...)) }
func (l *Logger) Netf(format string, args ...any)   { l.log(Net, fmt.Sprintf(format, args...)) }

// PerfScope starts a scoped timer and returns a function that logs the elapsed
// time at the Perf level when called, mirroring the original's
// destructor-timed ScopedTimer. Typical use:
//
//	defer logging.Default.PerfScope("Indexing Document")()
func (l *Logger) PerfScope(name string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		l.log(Perf, fmt.Sprintf("%s took %.3f ms", name, float64(elapsed.Microseconds())/1000.0))
	}
}
