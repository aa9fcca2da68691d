package task

import (
	"errors"
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
