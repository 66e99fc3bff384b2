package project

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps projects in process memory. It is safe for concurrent
// use and loses everything on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*Project
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]*Project)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (p *Project, err error) {
	defer func(start time.Time) { observe(ctx, "memory", "get", start, err) }(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.projects[id]
	if !ok {
		return nil, notFound(id)
	}
	return stored.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, p *Project) (err error) {
	defer func(start time.Time) { observe(ctx, "memory", "save", start, err) }(time.Now())
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects[p.ID] = p.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe(ctx, "memory", "delete", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return notFound(id)
	}
	delete(s.projects, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) (out []*Project, err error) {
	defer func(start time.Time) { observe(ctx, "memory", "list", start, err) }(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out = make([]*Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	sortProjects(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
