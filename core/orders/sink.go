package orders

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const scannerMaxBytes = 1024 * 1024

// CompletedOrder is an immutable record of a finished order: the capture
// time plus the final accepted state.
type CompletedOrder struct {
	Timestamp string `json:"timestamp"`
	Order     State  `json:"order"`
}

// NewCompletedOrder stamps the given final state with the current time.
func NewCompletedOrder(state State) CompletedOrder {
	return CompletedOrder{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Order:     state,
	}
}

// Sink is an append-only, newline-delimited log of completed orders. Appends
// are serialized by an internal mutex; there is no compaction, no read path
// in the service, and no dedup key, so a turn that is re-processed (a client
// retry) appends a duplicate entry.
type Sink struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	closed bool
}

// NewSink wraps an arbitrary writer, one serialized entry per line.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

// OpenSink opens (creating if necessary) an append-only log file.
func OpenSink(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open order log: %w", err)
	}

	sink := NewSink(f)
	sink.closer = f
	return sink, nil
}

// Append writes one entry and flushes it, so a single append is durable on
// return.
func (s *Sink) Append(entry CompletedOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("sink is closed")
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal order entry: %w", err)
	}
	if _, err := s.w.Write(line); err != nil {
		return fmt.Errorf("failed to write order entry: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write order entry: %w", err)
	}
	return s.w.Flush()
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	err := s.w.Flush()
	if s.closer != nil {
		if closeErr := s.closer.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

// ReadCompletedOrders parses a sink log back into entries. The service never
// reads the log; this exists for tooling and tests.
func ReadCompletedOrders(r io.Reader) ([]CompletedOrder, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), scannerMaxBytes)

	var entries []CompletedOrder
	line := 0
	for scanner.Scan() {
		line++
		var entry CompletedOrder
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
