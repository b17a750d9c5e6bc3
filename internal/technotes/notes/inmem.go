package notes

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/blueplan/technotes-go/internal/technotes/errs"
)

// InmemStore is an in-memory Store implementation used by tests and local
// development without a running SurrealDB.
type InmemStore struct {
	mu    sync.RWMutex
	notes map[string]Note
}

// NewInmem creates a new in-memory note store.
func NewInmem() *InmemStore {
	return &InmemStore{notes: make(map[string]Note)}
}

func (s *InmemStore) List(ctx context.Context) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Note, 0, len(s.notes))
	for _, note := range s.notes {
		result = append(result, note)
	}
	return result, nil
}

func (s *InmemStore) Get(ctx context.Context, id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	if !ok {
		return Note{}, errs.NotFound("note " + id)
	}
	return note, nil
}

func (s *InmemStore) GetByTitle(ctx context.Context, title string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, note := range s.notes {
		if EqualTitles(note.Title, title) {
			return note, nil
		}
	}
	return Note{}, errs.NotFound("note titled " + title)
}

func (s *InmemStore) Create(ctx context.Context, note Note) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note.ID = "note:" + uuid.NewString()
	s.notes[note.ID] = note
	return note, nil
}

func (s *InmemStore) Update(ctx context.Context, note Note) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[note.ID]; !ok {
		return Note{}, errs.NotFound("note " + note.ID)
	}
	s.notes[note.ID] = note
	return note, nil
}

func (s *InmemStore) Delete(ctx context.Context, id string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return Note{}, errs.NotFound("note " + id)
	}
	delete(s.notes, id)
	return note, nil
}
