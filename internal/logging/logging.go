// Package logging implements the handling of log messages within the program.
package logging

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

const logBufferLinesMax = 500

// Buffer is the global ring-buffer for all of the program's events.
var Buffer = newRingBuffer(logBufferLinesMax)

// RingBuffer is a fixed-size ring-buffer for recent log messages, kept
// alongside stderr so that a long-running serve process can report its
// recent activity without re-reading its own stderr stream.
type RingBuffer struct {
	mu    sync.Mutex
	buf   []string
	index int
	full  bool
	size  int
}

func newRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		buf:  make([]string, size),
		size: size,
	}
}

// Size returns the capacity of the ring-buffer.
func (l *RingBuffer) Size() int {
	return l.size
}

// Lines returns the buffered messages, oldest first.
func (l *RingBuffer) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.full {
		out := make([]string, l.index)
		copy(out, l.buf[:l.index])

		return out
	}

	out := make([]string, l.size)
	copy(out, l.buf[l.index:])
	copy(out[l.size-l.index:], l.buf[:l.index])

	return out
}

// Reset empties the ring-buffer.
func (l *RingBuffer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf = make([]string, l.size)
	l.index = 0
	l.full = false
}

func (l *RingBuffer) add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf[l.index] = strings.TrimSuffix(msg, "\n")
	l.index = (l.index + 1) % l.size
	if l.index == 0 {
		l.full = true
	}
}

// Printf adds a message to the ring-buffer and also prints it to stderr.
func Printf(format string, args ...any) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	msg := fmt.Sprintf(format, args...)
	full := fmt.Sprintf("%s %s", timestamp, msg)

	Buffer.add(full)            // add to buffer with timestamp
	log.Printf(format, args...) // also goes to stderr
}

// Println adds a message to the ring-buffer and also prints it to stderr.
func Println(args ...any) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	msg := fmt.Sprintln(args...)
	full := fmt.Sprintf("%s %s", timestamp, strings.TrimRight(msg, "\n"))

	Buffer.add(full)     // add to buffer with timestamp
	log.Println(args...) // also goes to stderr
}

// Infof logs an informational message, matching the "[INFO]" convention
// used throughout the CLI tools.
func Infof(format string, args ...any) {
	Printf("[INFO] "+format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	Printf("[WARN] "+format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	Printf("[ERROR] "+format, args...)
}
