package history

import (
	"EmotionGolang/internal/entity"
	"EmotionGolang/pkg/emotion"
	"sync"
)

const (
	Capacity      = 100
	DefaultWindow = 10
)

type IHistory interface {
	Append(record entity.PredictionRecord)
	Recent(n int) []entity.PredictionRecord
	Dominant(window int) entity.EmotionLabel
	LastTransition() (entity.TransitionResult, bool)
	Snapshot(limit, window int) Snapshot
	Len() int
	Reset()
}

// Snapshot is one consistent view of the store.
type Snapshot struct {
	Records    []entity.PredictionRecord
	Dominant   entity.EmotionLabel
	Transition *entity.TransitionResult
}

// store is a fixed-size ring buffer. Writers hold the exclusive lock for the
// whole append including eviction, so readers never see a half-evicted state.
type store struct {
	mu       sync.RWMutex
	records  []entity.PredictionRecord
	head     int
	size     int
	capacity int
}

func New() IHistory {
	return NewWithCapacity(Capacity)
}

func NewWithCapacity(capacity int) IHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &store{
		records:  make([]entity.PredictionRecord, capacity),
		capacity: capacity,
	}
}

func (s *store) Append(record entity.PredictionRecord) {
	record = record.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	tail := (s.head + s.size) % s.capacity
	s.records[tail] = record
	if s.size == s.capacity {
		// oldest slot was just overwritten
		s.head = (s.head + 1) % s.capacity
		return
	}
	s.size++
}

// Recent returns the last min(n, size) records, oldest first.
func (s *store) Recent(n int) []entity.PredictionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.recentLocked(n)
}

func (s *store) recentLocked(n int) []entity.PredictionRecord {
	if n > s.size {
		n = s.size
	}
	if n <= 0 {
		return []entity.PredictionRecord{}
	}

	out := make([]entity.PredictionRecord, n)
	start := s.head + s.size - n
	for i := 0; i < n; i++ {
		out[i] = s.records[(start+i)%s.capacity].Clone()
	}
	return out
}

func (s *store) Dominant(window int) entity.EmotionLabel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return emotion.DominantOf(s.recentLocked(window))
}

// LastTransition compares the two newest records.
func (s *store) LastTransition() (entity.TransitionResult, bool) {
	s.mu.RLock()
	last := s.recentLocked(2)
	s.mu.RUnlock()

	return transitionOf(last)
}

// Snapshot reads the recent records, the dominant label and the last
// transition under a single read lock.
func (s *store) Snapshot(limit, window int) Snapshot {
	s.mu.RLock()
	records := s.recentLocked(limit)
	windowed := s.recentLocked(window)
	last := s.recentLocked(2)
	s.mu.RUnlock()

	snap := Snapshot{
		Records:  records,
		Dominant: emotion.DominantOf(windowed),
	}
	if t, ok := transitionOf(last); ok {
		snap.Transition = &t
	}
	return snap
}

func transitionOf(last []entity.PredictionRecord) (entity.TransitionResult, bool) {
	if len(last) < 2 {
		return entity.TransitionResult{}, false
	}
	return emotion.Transition(last[1].Label, last[0].Label), true
}

func (s *store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.size
}

func (s *store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]entity.PredictionRecord, s.capacity)
	s.head = 0
	s.size = 0
}
