package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/marshal"

	"github.com/blueplan/technotes-go/internal/technotes/errs"
)

const userTable = "user"

// SurrealDirectory is the SurrealDB-backed Directory implementation.
type SurrealDirectory struct {
	db *surrealdb.DB
}

// NewSurrealDirectory creates a user directory on an established SurrealDB
// connection.
func NewSurrealDirectory(db *surrealdb.DB) *SurrealDirectory {
	return &SurrealDirectory{db: db}
}

func (d *SurrealDirectory) Get(ctx context.Context, id string) (User, error) {
	data, err := d.db.Select(userThing(id))
	if err != nil {
		var perm surrealdb.PermissionError
		if errors.As(err, &perm) {
			return User{}, errs.NotFound("user " + id)
		}
		return User{}, fmt.Errorf("select user %s: %w", id, err)
	}
	found, err := marshal.SmartUnmarshal[User](data, nil)
	if err != nil {
		return User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	if len(found) == 0 {
		return User{}, errs.NotFound("user " + id)
	}
	return found[0], nil
}

func (d *SurrealDirectory) List(ctx context.Context) ([]User, error) {
	data, err := d.db.Select(userTable)
	found, err := marshal.SmartUnmarshal[User](data, err)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	return found, nil
}

// userThing qualifies a bare record id with the user table.
func userThing(id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	return userTable + ":" + id
}
