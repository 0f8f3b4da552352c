package testutil

import (
	"io"

	"github.com/dtroode/streamhub-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0, false)
}
