package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/marshal"

	"github.com/blueplan/technotes-go/internal/technotes/errs"
)

const noteTable = "note"

// SurrealStore is the SurrealDB-backed Store implementation. Each method is a
// single document operation over the driver's websocket RPC connection.
type SurrealStore struct {
	db *surrealdb.DB
}

// NewSurrealStore creates a note store on an established SurrealDB connection.
func NewSurrealStore(db *surrealdb.DB) *SurrealStore {
	return &SurrealStore{db: db}
}

func (s *SurrealStore) List(ctx context.Context) ([]Note, error) {
	data, err := s.db.Select(noteTable)
	notes, err := marshal.SmartUnmarshal[Note](data, err)
	if err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}
	return notes, nil
}

func (s *SurrealStore) Get(ctx context.Context, id string) (Note, error) {
	data, err := s.db.Select(noteThing(id))
	if err != nil {
		var perm surrealdb.PermissionError
		if errors.As(err, &perm) {
			return Note{}, errs.NotFound("note " + id)
		}
		return Note{}, fmt.Errorf("select note %s: %w", id, err)
	}
	notes, err := marshal.SmartUnmarshal[Note](data, nil)
	if err != nil {
		return Note{}, fmt.Errorf("decode note %s: %w", id, err)
	}
	if len(notes) == 0 {
		return Note{}, errs.NotFound("note " + id)
	}
	return notes[0], nil
}

// GetByTitle scans the table and compares in process: SurrealQL has no
// collation support, and base-level equality must also ignore diacritics,
// which string::lowercase cannot express.
func (s *SurrealStore) GetByTitle(ctx context.Context, title string) (Note, error) {
	all, err := s.List(ctx)
	if err != nil {
		return Note{}, err
	}
	for _, note := range all {
		if EqualTitles(note.Title, title) {
			return note, nil
		}
	}
	return Note{}, errs.NotFound("note titled " + title)
}

func (s *SurrealStore) Create(ctx context.Context, note Note) (Note, error) {
	data, err := s.db.Create(noteTable, map[string]interface{}{
		"user":      note.User,
		"title":     note.Title,
		"text":      note.Text,
		"completed": note.Completed,
	})
	created, err := marshal.SmartUnmarshal[Note](data, err)
	if err != nil {
		return Note{}, fmt.Errorf("create note: %w", err)
	}
	if len(created) == 0 {
		return Note{}, fmt.Errorf("create note: empty response")
	}
	return created[0], nil
}

func (s *SurrealStore) Update(ctx context.Context, note Note) (Note, error) {
	// SurrealDB upserts on UPDATE, so confirm the record still exists to
	// keep the optimistic save contract.
	if _, err := s.Get(ctx, note.ID); err != nil {
		return Note{}, err
	}
	data, err := s.db.Change(noteThing(note.ID), map[string]interface{}{
		"user":      note.User,
		"title":     note.Title,
		"text":      note.Text,
		"completed": note.Completed,
	})
	updated, err := marshal.SmartUnmarshal[Note](data, err)
	if err != nil {
		return Note{}, fmt.Errorf("update note %s: %w", note.ID, err)
	}
	if len(updated) == 0 {
		return Note{}, errs.NotFound("note " + note.ID)
	}
	return updated[0], nil
}

func (s *SurrealStore) Delete(ctx context.Context, id string) (Note, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return Note{}, err
	}
	if _, err := s.db.Delete(noteThing(id)); err != nil {
		return Note{}, fmt.Errorf("delete note %s: %w", id, err)
	}
	return note, nil
}

// noteThing qualifies a bare record id with the note table.
func noteThing(id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	return noteTable + ":" + id
}
