package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
)

// File appends entries as JSON lines.
type File struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// OpenFile opens path for appending, creating it if needed.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening journal file: %w", err)
	}
	return &File{f: f, enc: json.NewEncoder(f)}, nil
}

func (s *File) Record(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(e)
}

// Close closes the underlying file.
func (s *File) Close() error {
	return s.f.Close()
}

// DefaultRecent is the capacity of a Recent sink built with size zero.
const DefaultRecent = 100

// Recent keeps the last entries in memory, oldest evicted first.
type Recent struct {
	mu      sync.RWMutex
	size    int
	entries []Entry
}

// NewRecent returns a Recent holding up to size entries.
func NewRecent(size int) *Recent {
	if size <= 0 {
		size = DefaultRecent
	}
	return &Recent{size: size}
}

func (s *Recent) Record(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == s.size {
		s.entries = slices.Delete(s.entries, 0, 1)
	}
	s.entries = append(s.entries, e)
	return nil
}

// Last returns up to n entries, newest first. n <= 0 means all.
func (s *Recent) Last(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= len(s.entries)-n; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// Len is the number of entries held.
func (s *Recent) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
