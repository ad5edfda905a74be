// Package leaderboard keeps the persisted top-N ranking of finished runs,
// ordered by survival time. The ranking lives under a single backend key
// as a JSON array of {"name": string, "time": number} objects.
package leaderboard

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultSize is the number of entries a board keeps unless told otherwise.
const DefaultSize = 10

// UnknownName replaces missing or malformed player names.
const UnknownName = "Unknown"

// Entry is one finished run.
type Entry struct {
	Name string  `json:"name"`
	Time float64 `json:"time"` // Survival time in seconds
}

// History receives every run recorded on a board.
type History interface {
	SaveRun(key, name string, seconds float64) error
}

// Option configures a Board.
type Option func(*Board)

// WithSize sets how many entries the board keeps.
func WithSize(n int) Option {
	return func(b *Board) {
		if n > 0 {
			b.size = n
		}
	}
}

// WithLogger sets the logger used for repair and coercion warnings.
func WithLogger(l *log.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// WithHistory appends every recorded run to h.
func WithHistory(h History) Option {
	return func(b *Board) { b.history = h }
}

// Board is a leaderboard bound to one backend key.
// It is safe for concurrent use.
type Board struct {
	mu      sync.Mutex
	backend Backend
	key     string
	size    int
	logger  *log.Logger
	history History
	entries []Entry
}

// Open loads the board stored under key and repairs it.
func Open(backend Backend, key string, opts ...Option) (*Board, error) {
	b := &Board{
		backend: backend,
		key:     key,
		size:    DefaultSize,
		logger:  log.New(io.Discard),
		entries: []Entry{},
	}
	for _, opt := range opts {
		opt(b)
	}

	raw, err := b.Load()
	if err != nil {
		return nil, err
	}
	if _, err := b.Validate(raw); err != nil {
		return nil, err
	}
	return b, nil
}

// Key returns the backend key the board is stored under.
func (b *Board) Key() string {
	return b.key
}

// Size returns the maximum number of entries.
func (b *Board) Size() int {
	return b.size
}

// Load reads the stored sequence without interpreting its entries.
// A missing key or content that is not a JSON array yields an empty sequence.
func (b *Board) Load() ([]json.RawMessage, error) {
	data, err := b.backend.Get(b.key)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot load %q: %w", b.key, err)
	}
	if len(data) == 0 {
		return []json.RawMessage{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		b.logger.Warn("discarding malformed leaderboard", "key", b.key, "err", err)
		return []json.RawMessage{}, nil
	}
	if raw == nil {
		raw = []json.RawMessage{}
	}
	return raw, nil
}

// Validate coerces every entry into a well-formed Entry, sorts by time
// descending, trims to size, and persists the result. Running it on its
// own output changes nothing.
func (b *Board) Validate(raw []json.RawMessage) ([]Entry, error) {
	entries := make([]Entry, 0, len(raw))
	repaired := 0
	for _, r := range raw {
		e, ok := coerceEntry(r)
		if !ok {
			repaired++
		}
		entries = append(entries, e)
	}
	if repaired > 0 {
		b.logger.Warn("repaired leaderboard entries", "key", b.key, "count", repaired)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = rank(entries, b.size)
	if err := b.persist(); err != nil {
		return b.list(), err
	}
	return b.list(), nil
}

// Record adds a run and returns its 1-based rank, or 0 if it did not make
// the board. Times that are negative or not finite are recorded as zero.
func (b *Board) Record(name string, seconds float64) (int, error) {
	if !validTime(seconds) {
		b.logger.Warn("invalid survival time, recording 0", "name", name, "time", seconds)
		seconds = 0
	}
	if strings.TrimSpace(name) == "" {
		name = UnknownName
	}

	if b.history != nil {
		if err := b.history.SaveRun(b.key, name, seconds); err != nil {
			b.logger.Warn("cannot save run history", "key", b.key, "err", err)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	added := Entry{Name: name, Time: seconds}
	b.entries = rank(append(b.entries, added), math.MaxInt)

	pos := 0
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i] == added {
			pos = i + 1
			break
		}
	}
	if pos > b.size {
		pos = 0
	}
	b.entries = b.entries[:min(len(b.entries), b.size)]

	if err := b.persist(); err != nil {
		return pos, err
	}
	return pos, nil
}

// List returns a copy of the current ranking.
func (b *Board) List() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.list()
}

func (b *Board) list() []Entry {
	return slices.Clone(b.entries)
}

// Best returns the top entry, if any.
func (b *Board) Best() (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 {
		return Entry{}, false
	}
	return b.entries[0], true
}

// Qualifies reports whether a run of the given length would make the board.
func (b *Board) Qualifies(seconds float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) < b.size {
		return true
	}
	return seconds > b.entries[len(b.entries)-1].Time
}

// Clear removes every entry and persists the empty board.
func (b *Board) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = []Entry{}
	return b.persist()
}

// persist writes the entries. Callers hold b.mu.
func (b *Board) persist() error {
	data, err := json.Marshal(b.entries)
	if err != nil {
		return fmt.Errorf("leaderboard: cannot encode %q: %w", b.key, err)
	}
	if err := b.backend.Set(b.key, data); err != nil {
		return fmt.Errorf("leaderboard: cannot save %q: %w", b.key, err)
	}
	return nil
}

// rank sorts entries by time descending, keeping insertion order for ties,
// and trims to size.
func rank(entries []Entry, size int) []Entry {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Time > b.Time:
			return -1
		case a.Time < b.Time:
			return 1
		default:
			return 0
		}
	})
	if len(entries) > size {
		entries = entries[:size]
	}
	return entries
}

func validTime(t float64) bool {
	return t >= 0 && !math.IsInf(t, 0) && !math.IsNaN(t)
}

// coerceEntry turns one stored element into an Entry. ok is false when
// anything had to be replaced.
func coerceEntry(raw json.RawMessage) (Entry, bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return Entry{Name: UnknownName}, false
	}

	e := Entry{Name: UnknownName}
	ok := true

	if name, isString := obj["name"].(string); isString && name != "" {
		e.Name = name
	} else {
		ok = false
	}

	switch t := obj["time"].(type) {
	case float64:
		if validTime(t) {
			e.Time = t
		} else {
			ok = false
		}
	case string:
		// Numeric strings were accepted by older versions of the store.
		v, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil && validTime(v) {
			e.Time = v
		}
		ok = false
	default:
		ok = false
	}
	return e, ok
}

// Format renders one entry the way the scoreboard lists it.
func Format(rank int, e Entry) string {
	return fmt.Sprintf("%d. %s: %.2f seconds", rank, e.Name, e.Time)
}

// EmptyText is shown when a board has no entries.
const EmptyText = "No scores yet. Play the game to set some records!"
