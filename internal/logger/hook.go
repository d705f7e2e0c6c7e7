package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook buffers log entries and writes them to its writers from a
// dedicated goroutine, so logging never blocks the caller.
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewAsyncHook creates an async hook writing to the given writers.
// bufferSize caps the number of pending entries; excess entries are dropped.
func NewAsyncHook(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	hook := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}

	hook.wg.Add(1)
	go hook.processEntries()

	return hook
}

// Levels reports that this hook handles all log levels.
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire enqueues the entry without blocking. If the buffer is full the
// entry is dropped rather than stalling the request path.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	// Dup the entry: logrus reuses entries after Fire returns.
	dup := entry.Dup()
	dup.Level = entry.Level
	dup.Message = entry.Message
	dup.Caller = entry.Caller

	// The closed check and the send stay under the same lock so Close
	// cannot close the channel in between.
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	select {
	case h.entries <- dup:
	default:
		// Buffer full, drop.
	}
	return nil
}

func (h *AsyncHook) processEntries() {
	defer h.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "logger: async hook panic: %v\n%s", r, debug.Stack())
		}
	}()

	for entry := range h.entries {
		line, err := entry.Logger.Formatter.Format(entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: failed to format entry: %v\n", err)
			continue
		}
		for _, w := range h.writers {
			if _, err := w.Write(line); err != nil {
				fmt.Fprintf(os.Stderr, "logger: failed to write entry: %v\n", err)
			}
		}
	}
}

// Close stops accepting entries, drains the buffer and waits for the
// writer goroutine to finish. Safe to call more than once.
func (h *AsyncHook) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	close(h.entries)
	h.wg.Wait()

	for _, w := range h.writers {
		if closer, ok := w.(io.Closer); ok && w != os.Stdout {
			closer.Close()
		}
	}
}
