// Package users provides read-only access to user records. The note service
// only needs it to resolve usernames for enrichment; user writes belong to the
// authentication stack, which this service does not own.
package users

import "context"

// User is a persisted user record.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Directory is the read-only lookup boundary for users.
type Directory interface {
	// Get returns the user with the given id, or errs.ErrNotFound.
	Get(ctx context.Context, id string) (User, error)
	// List returns every user in unspecified order.
	List(ctx context.Context) ([]User, error)
}
