// Package invariant reports violations of internal invariants -
// conditions that should be unreachable through any public API and that
// indicate a programming error rather than bad input. Per spec section
// 7.4, these panic in debug builds and degrade safely in release builds:
// logged and swallowed, with the caller falling back to the safe value it
// already had in hand (e.g. a single point range at 0).
package invariant

import (
	"errors"
	"fmt"
	"io"

	seelog "github.com/cihub/seelog"
)

var logger seelog.LoggerInterface

func init() {
	DisableLog()
}

// DisableLog disables all package log output. This is the default.
func DisableLog() {
	logger = seelog.Disabled
}

// UseLogger routes package log output through newLogger.
func UseLogger(newLogger seelog.LoggerInterface) {
	logger = newLogger
}

// SetLogWriter routes package log output to writer.
func SetLogWriter(writer io.Writer) error {
	if writer == nil {
		return errors.New("nil writer")
	}
	newLogger, err := seelog.LoggerFromWriterWithMinLevel(writer, seelog.TraceLvl)
	if err != nil {
		return err
	}
	UseLogger(newLogger)
	return nil
}

// FlushLog flushes buffered log output. Call before process exit.
func FlushLog() {
	logger.Flush()
}

// Violation is raised by Check when an internal invariant doesn't hold.
// Callers that want to distinguish it from an ordinary error can match it
// with errors.As.
type Violation struct {
	Where string
	Msg   string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("internal invariant violated in %s: %s", v.Where, v.Msg)
}

// Check reports a violated invariant: where names the function or
// component, msg describes what should have held. In debug builds (build
// tag "debug") this panics; in release builds it logs at error level and
// returns, leaving the caller to fall back to a safe default.
func Check(where, msg string) {
	check(&Violation{Where: where, Msg: msg})
}

func logViolation(v *Violation) {
	logger.Errorf("%s", v.Error())
}
