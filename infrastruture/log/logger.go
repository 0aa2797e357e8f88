// Package log provides the leveled, colour tagged logger used by every
// component.
package log

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beka-birhanu/snake-duel/config"
	"github.com/beka-birhanu/snake-duel/service/i"
)

var _ i.Logger = &Logger{}

// Logger writes lines prefixed with a coloured component name and a level tag.
type Logger struct {
	logger *log.Logger
}

// New returns a Logger writing to w. color is one of the config colour constants.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, errors.New("log writer is required")
	}
	tag := fmt.Sprintf("%s[%s]%s ", color, prefix, config.ColorReset)
	return &Logger{logger: log.New(w, tag, log.LstdFlags|log.Lmsgprefix)}, nil
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{logger: log.New(io.Discard, "", 0)}
}

func (l *Logger) Info(msg string) {
	l.logger.Printf("%s[INFO]%s %s", config.LogInfoColor, config.LogColorReset, msg)
}

func (l *Logger) Error(msg string) {
	l.logger.Printf("%s[ERROR]%s %s", config.LogErrorColor, config.LogColorReset, msg)
}

func (l *Logger) Warning(msg string) {
	l.logger.Printf("%s[WARNING]%s %s", config.LogWarningColor, config.LogColorReset, msg)
}

// Std exposes the underlying logger for packages that take a *log.Logger.
func (l *Logger) Std() *log.Logger {
	return l.logger
}
