// Package memstore is an in-memory ChunkStore. It backs tests and
// fast throwaway runs where nothing should touch disk.
package memstore

import (
	"sort"
	"sync"

	"madrasa/internal/domain"
	"madrasa/internal/port"
)

type Memory struct {
	mu      sync.RWMutex
	chunks  map[string]map[string]domain.Chunk // subject -> chunk key -> chunk
	ordered map[string][]string                // subject -> keys in insertion order
}

var _ port.ChunkStore = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		chunks:  make(map[string]map[string]domain.Chunk),
		ordered: make(map[string][]string),
	}
}

func (s *Memory) PutChunks(chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		bySubject, ok := s.chunks[chunk.Subject]
		if !ok {
			bySubject = make(map[string]domain.Chunk)
			s.chunks[chunk.Subject] = bySubject
		}
		key := chunk.Key()
		if _, exists := bySubject[key]; !exists {
			s.ordered[chunk.Subject] = append(s.ordered[chunk.Subject], key)
		}
		bySubject[key] = chunk
	}
	return nil
}

func (s *Memory) ChunksBySubject(subject string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.ordered[subject]
	if len(keys) == 0 {
		return nil, nil
	}
	chunks := make([]domain.Chunk, 0, len(keys))
	for _, key := range keys {
		chunks = append(chunks, s.chunks[subject][key])
	}
	return chunks, nil
}

func (s *Memory) Subjects() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subjects := make([]string, 0, len(s.chunks))
	for subject := range s.chunks {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects, nil
}

func (s *Memory) Stats() ([]domain.SubjectStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subjects := make([]string, 0, len(s.chunks))
	for subject := range s.chunks {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	stats := make([]domain.SubjectStats, 0, len(subjects))
	for _, subject := range subjects {
		st := domain.SubjectStats{Subject: subject}
		sources := make(map[string]struct{})
		for _, chunk := range s.chunks[subject] {
			st.Chunks++
			sources[chunk.Source] = struct{}{}
		}
		st.Documents = len(sources)
		stats = append(stats, st)
	}
	return stats, nil
}

func (s *Memory) DeleteSubject(subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, subject)
	delete(s.ordered, subject)
	return nil
}

func (s *Memory) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = make(map[string]map[string]domain.Chunk)
	s.ordered = make(map[string][]string)
	return nil
}

func (s *Memory) Close() error {
	return nil
}
