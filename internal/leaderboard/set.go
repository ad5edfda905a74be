package leaderboard

import (
	"sync"
)

// Set hands out one Board per key over a shared backend, so every session
// of a process ranks against the same in-memory board.
type Set struct {
	mu      sync.Mutex
	backend Backend
	opts    []Option
	boards  map[string]*Board
}

// NewSet creates a set whose boards are opened with opts.
func NewSet(backend Backend, opts ...Option) *Set {
	return &Set{
		backend: backend,
		opts:    opts,
		boards:  make(map[string]*Board),
	}
}

// Board returns the board for key, opening it on first use.
func (s *Set) Board(key string, opts ...Option) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.boards[key]; ok {
		return b, nil
	}
	b, err := Open(s.backend, key, append(append([]Option{}, s.opts...), opts...)...)
	if err != nil {
		return nil, err
	}
	s.boards[key] = b
	return b, nil
}
