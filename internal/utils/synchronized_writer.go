package utils

import (
	"io"
	"sync"
)

// SynchronizedWriter serializes concurrent writes so each report row reaches the
// underlying writer as a single uninterrupted chunk, flushing buffered writers
// after every write.
type SynchronizedWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewSynchronizedWriter wraps the provided writer in a mutex-guarded writer that
// flushes after each write when the underlying writer supports flushing.
func NewSynchronizedWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if _, alreadyWrapped := writer.(*SynchronizedWriter); alreadyWrapped {
		return writer
	}
	return &SynchronizedWriter{writer: writer}
}

// Write delegates to the underlying writer under the mutex and flushes it when possible.
func (synchronizedWriter *SynchronizedWriter) Write(data []byte) (int, error) {
	if synchronizedWriter == nil || synchronizedWriter.writer == nil {
		return 0, nil
	}

	synchronizedWriter.mutex.Lock()
	defer synchronizedWriter.mutex.Unlock()

	bytesWritten, writeError := synchronizedWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableWriter, implementsFlush := synchronizedWriter.writer.(interface{ Flush() error }); implementsFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}
