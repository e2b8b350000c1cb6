package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

// FlushingWriter pushes every write through to its destination.
// Writers exposing Flush (bufio.Writer) are flushed; writers exposing Sync (os.File, zapcore.WriteSyncer) are synced.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writer. A nil writer yields io.Discard and an already wrapped writer is returned as is.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return io.Discard
	}
	if _, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return writer
	}
	return &FlushingWriter{writer: writer}
}

// Write delegates to the wrapped writer and then flushes or syncs it.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	switch destination := flushingWriter.writer.(type) {
	case flusher:
		return bytesWritten, destination.Flush()
	case syncer:
		// Terminals and pipes reject fsync; the data is already delivered.
		_ = destination.Sync()
	}
	return bytesWritten, nil
}
