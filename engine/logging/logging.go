// package logging holds the process-wide leveled logger shared by the engine components.
package logging

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger

	mu       sync.Mutex
	children []*log.Logger
)

// Logger returns the shared engine logger, creating it on first use.
func Logger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "oxy",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// With returns a child of the shared logger carrying a component prefix.
//
// Parameters:
//   - component: short component name, e.g. "ring" or "renderer"
//
// Returns:
//   - *log.Logger: the prefixed logger
func With(component string) *log.Logger {
	child := Logger().WithPrefix("oxy/" + component)
	mu.Lock()
	children = append(children, child)
	mu.Unlock()
	return child
}

// SetLevel changes the level of the shared logger and every logger handed out by With. Unknown names leave the level unchanged
// and return the parse error.
//
// Parameters:
//   - level: one of "debug", "info", "warn", "error", "fatal"
//
// Returns:
//   - error: the parse error for an unknown level name
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger().SetLevel(lvl)
	// children copy the level at creation
	mu.Lock()
	for _, c := range children {
		c.SetLevel(lvl)
	}
	mu.Unlock()
	return nil
}

func Debug(msg string, keyvals ...any) {
	Logger().Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...any) {
	Logger().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...any) {
	Logger().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...any) {
	Logger().Error(msg, keyvals...)
}
