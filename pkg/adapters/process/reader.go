package process

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const lineBuffer = 256

// LineReader drains lines from a stream on a background goroutine, so the
// driver can poll for output without ever blocking on a read. The goroutine
// is the stream's only consumer; it exits when the stream closes or Stop is
// called.
type LineReader struct {
	lines chan string
	stop  chan struct{}
	once  sync.Once
	eof   atomic.Bool
}

// NewLineReader starts draining r immediately.
func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{
		lines: make(chan string, lineBuffer),
		stop:  make(chan struct{}),
	}
	go lr.pump(r)
	return lr
}

func (lr *LineReader) pump(r io.Reader) {
	defer func() {
		lr.eof.Store(true)
		close(lr.lines)
	}()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case lr.lines <- scanner.Text():
		case <-lr.stop:
			return
		}
	}
}

// EOF reports that the stream has ended and everything buffered has been
// read out. No further data can ever arrive, so waiting is pointless.
func (lr *LineReader) EOF() bool {
	return lr.eof.Load() && len(lr.lines) == 0
}

// ReadLine returns the next buffered line, waiting up to timeout for one to
// arrive. ok is false when nothing arrived in time, and permanently once the
// stream has closed and the buffer has drained.
func (lr *LineReader) ReadLine(timeout time.Duration) (line string, ok bool) {
	if timeout <= 0 {
		select {
		case line, ok = <-lr.lines:
			return line, ok
		default:
			return "", false
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case line, ok = <-lr.lines:
		return line, ok
	case <-timer.C:
		return "", false
	}
}

// ReadText returns everything currently waiting in the buffer as one block.
// Lines keep arriving as the interpreter prints, so the reader keeps
// collecting until no further line shows up within gap. The block is
// whitespace-trimmed and the leading prompt marker is stripped.
func (lr *LineReader) ReadText(gap time.Duration) string {
	var lines []string
	for {
		line, ok := lr.ReadLine(gap)
		if !ok {
			break
		}
		lines = append(lines, strings.TrimRight(line, " \t\r"))
	}
	return stripPrompt(strings.Join(lines, "\n"))
}

// Stop stops buffering: the pump goroutine discards its next line and
// exits. A pump blocked mid-read stays blocked until the stream closes, so
// teardown still has to close the underlying stream; Stop just guarantees
// nothing more is queued after it. Reads drain whatever is already buffered
// and then report ok=false.
func (lr *LineReader) Stop() {
	lr.once.Do(func() { close(lr.stop) })
}

// stripPrompt removes surrounding whitespace and the leading prompt markers
// an interpreter echoes in front of its response.
func stripPrompt(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "> \t")
}
