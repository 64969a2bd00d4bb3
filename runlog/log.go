package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Log is an append-only sequence of Events. It is the only object in the
// module that is mutated by concurrent callers; Append serializes writers and
// guarantees non-decreasing timestamps within one Log instance.
//
// If a path is configured, every Append synchronously rewrites the full log
// before returning, so a crash after Append returns never loses the
// just-appended event.
type Log struct {
	mu     sync.Mutex
	events []Event
	path   string
	lastTS time.Time
}

// NewLog creates a Log. An empty path keeps the log in memory only.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the persistence target, or "" for a memory-only log.
func (l *Log) Path() string { return l.path }

// Append assigns the current time to e and appends it atomically. The
// assigned timestamp never goes backwards relative to earlier appends on the
// same Log, even if the wall clock does.
func (l *Log) Append(e Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now()
	if ts.Before(l.lastTS) {
		ts = l.lastTS
	}
	e.Timestamp = ts
	l.lastTS = ts
	l.events = append(l.events, e)

	if l.path != "" {
		return l.flushLocked()
	}
	return nil
}

// flushLocked rewrites the full log as newline-delimited JSON. The write goes
// to a temp file in the same directory and is renamed into place so readers
// never observe a partial file.
func (l *Log) flushLocked() error {
	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, ".runlog-*")
	if err != nil {
		return fmt.Errorf("create temp log file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, e := range l.events {
		if err := enc.Encode(e); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("encode event: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flush log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp log file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace log file: %w", err)
	}
	return nil
}

// Load restores events from the persistence target. A missing file is not an
// error; it yields an empty log. Blank lines are skipped. Load replaces any
// events already held in memory.
func (l *Log) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		return nil
	}

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		l.events = nil
		l.lastTS = time.Time{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	l.events = events
	l.lastTS = time.Time{}
	if n := len(events); n > 0 {
		l.lastTS = events[n-1].Timestamp
	}
	return nil
}

// All returns a copy of the full event sequence in append order.
func (l *Log) All() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Since returns events with a timestamp strictly greater than t, in append
// order.
func (l *Log) Since(t time.Time) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, e := range l.events {
		if e.Timestamp.After(t) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of appended events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Derive folds the full event sequence into a RunState. It is recomputed on
// every call; callers must not assume incremental caching.
func (l *Log) Derive() RunState {
	return Derive(l.All())
}

// Summary derives the read-only evaluation view of the run.
func (l *Log) Summary() Summary {
	return l.Derive().Summary()
}
