package notes

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/blueplan/technotes-go/internal/technotes/errs"
	"github.com/blueplan/technotes-go/internal/technotes/log"
	"github.com/blueplan/technotes-go/internal/technotes/users"
)

// UnknownUsername is attached to a note whose user reference does not resolve.
// Referential integrity is not enforced at write time, so a dangling
// reference degrades to this placeholder instead of failing the request.
const UnknownUsername = "unknown"

// Service orchestrates validation, duplicate-title checking and username
// enrichment around the note store and the user directory.
type Service struct {
	store  Store
	users  users.Directory
	logger *log.Logger
}

// NewService creates a note service.
func NewService(store Store, directory users.Directory, logger *log.Logger) *Service {
	return &Service{
		store:  store,
		users:  directory,
		logger: logger,
	}
}

// ListEnriched returns every note with its owner's username attached. An
// empty store is a not-found error: the API treats an empty collection as a
// client-visible condition, not a valid empty result. Lookups run
// concurrently and the whole operation fails on the first directory failure;
// no partial results are returned.
func (s *Service) ListEnriched(ctx context.Context) ([]EnrichedNote, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errs.NotFound("no notes found")
	}

	enriched := make([]EnrichedNote, len(all))
	g, gctx := errgroup.WithContext(ctx)
	for i, note := range all {
		g.Go(func() error {
			username, err := s.resolveUsername(gctx, note.User)
			if err != nil {
				return err
			}
			enriched[i] = EnrichedNote{Note: note, Username: username}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}

func (s *Service) resolveUsername(ctx context.Context, userID string) (string, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		s.logger.Warn(ctx, "note references missing user", log.KV("user", userID))
		return UnknownUsername, nil
	}
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// Create validates the input, rejects duplicate titles and persists a new
// note with completed set to false.
func (s *Service) Create(ctx context.Context, user, title, text string) (Note, error) {
	if user == "" || title == "" || text == "" {
		return Note{}, errs.Validation("user, title and text are required")
	}
	if err := s.checkDuplicateTitle(ctx, title, ""); err != nil {
		return Note{}, err
	}
	return s.store.Create(ctx, Note{
		User:      user,
		Title:     title,
		Text:      text,
		Completed: false,
	})
}

// Update replaces every mutable field of an existing note. The duplicate
// check excludes the note itself so it may keep its current title.
func (s *Service) Update(ctx context.Context, id, user, title, text string, completed bool) (Note, error) {
	if id == "" || user == "" || title == "" || text == "" {
		return Note{}, errs.Validation("id, user, title and text are required")
	}
	note, err := s.store.Get(ctx, id)
	if err != nil {
		return Note{}, err
	}
	if err := s.checkDuplicateTitle(ctx, title, note.ID); err != nil {
		return Note{}, err
	}

	note.User = user
	note.Title = title
	note.Text = text
	note.Completed = completed
	return s.store.Update(ctx, note)
}

// Delete removes a note by id and returns its former state for the
// confirmation message.
func (s *Service) Delete(ctx context.Context, id string) (Note, error) {
	if id == "" {
		return Note{}, errs.Validation("note id is required")
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return Note{}, err
	}
	return s.store.Delete(ctx, id)
}

// checkDuplicateTitle fails with a conflict if a note other than selfID
// already holds an equal title under base-level comparison.
func (s *Service) checkDuplicateTitle(ctx context.Context, title, selfID string) error {
	existing, err := s.store.GetByTitle(ctx, title)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return errs.Conflict("duplicate note title " + title)
	}
	return nil
}
