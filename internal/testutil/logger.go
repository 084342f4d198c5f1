package testutil

import (
	"bytes"
	"sync"

	"interactions-relay/internal/common/logging"
)

// LogBuffer is a goroutine-safe sink for captured log output.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewBufferLogger returns a debug-level JSON logger writing into the returned buffer.
func NewBufferLogger() (logging.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	logger, err := logging.NewZapLogger(logging.LogConfig{
		Level:  logging.DebugLevel,
		Format: logging.FormatJSON,
		Output: buf,
	})
	if err != nil {
		panic(err)
	}
	return logger, buf
}
