package users

import (
	"context"
	"sync"

	"github.com/blueplan/technotes-go/internal/technotes/errs"
)

// InmemDirectory is an in-memory Directory used by tests and local
// development.
type InmemDirectory struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewInmem creates a new in-memory user directory.
func NewInmem() *InmemDirectory {
	return &InmemDirectory{users: make(map[string]User)}
}

// Put adds or replaces a user; test seeding helper.
func (d *InmemDirectory) Put(user User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.ID] = user
}

func (d *InmemDirectory) Get(ctx context.Context, id string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[id]
	if !ok {
		return User{}, errs.NotFound("user " + id)
	}
	return user, nil
}

func (d *InmemDirectory) List(ctx context.Context) ([]User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]User, 0, len(d.users))
	for _, user := range d.users {
		result = append(result, user)
	}
	return result, nil
}
