// Package notes holds the note domain model, the persistence boundary and the
// service that orchestrates validation, duplicate-title checking and username
// enrichment around it.
package notes

import (
	"context"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Note is a persisted note document.
type Note struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// EnrichedNote is a note carrying its owner's username.
type EnrichedNote struct {
	Note
	Username string `json:"username"`
}

// Store is the persistence boundary for note documents. Implementations map
// absence to errs.ErrNotFound; every other failure is an infrastructure error.
type Store interface {
	// List returns every persisted note in unspecified order. An empty
	// slice is a valid result at this layer.
	List(ctx context.Context) ([]Note, error)
	// Get returns the note with the given id.
	Get(ctx context.Context, id string) (Note, error)
	// GetByTitle returns the note whose title equals the given one under
	// base-level collation. At most one match exists given the uniqueness
	// invariant.
	GetByTitle(ctx context.Context, title string) (Note, error)
	// Create persists a new note and assigns its id.
	Create(ctx context.Context, note Note) (Note, error)
	// Update replaces the mutable fields of an already-identified note.
	// It fails with errs.ErrNotFound if the record vanished since it was
	// loaded.
	Update(ctx context.Context, note Note) (Note, error)
	// Delete removes the note and returns its prior state.
	Delete(ctx context.Context, id string) (Note, error)
}

// The collator compares titles at base (primary) strength: case, diacritics
// and width are ignored, so "Shopping" equals "SHOPPING" and "résumé" equals
// "resume". Collators are not safe for concurrent use, hence the mutex.
var (
	titleMu  sync.Mutex
	titleCol = collate.New(language.English, collate.Loose)
)

// EqualTitles reports whether two titles are equal under base-level,
// locale-aware comparison.
func EqualTitles(a, b string) bool {
	titleMu.Lock()
	defer titleMu.Unlock()
	return titleCol.CompareString(a, b) == 0
}
