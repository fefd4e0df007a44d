package runtime

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"sync"

	"github.com/samber/lo"
)

// Registry is the process-wide presence store: one entry per joined
// connection. Rooms are not stored, they are derived from the entries.
// The slice keeps join order, which drives roster display.
//
// Registry is safe for concurrent use by multiple goroutines. Every
// operation is a single short critical section so validate-then-insert
// and list-then-broadcast stay race-free under parallel sessions.
type Registry struct {
	mu    sync.RWMutex
	users []domain.User
}

func NewRegistry() *Registry {
	return &Registry{}
}

// AddUser normalizes username and room, validates them, and inserts the
// entry. Fails without side effect if either field is empty after
// trimming or if the username is already taken in that room.
func (r *Registry) AddUser(id, username, room string) (domain.User, error) {
	username = domain.Normalize(username)
	room = domain.Normalize(room)
	if username == "" || room == "" {
		return domain.User{}, errors.ErrMissingFields
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Room == room && u.Username == username {
			return domain.User{}, errors.ErrNameTaken
		}
	}

	user := domain.User{ID: id, Username: username, Room: room}
	r.users = append(r.users, user)
	return user, nil
}

// RemoveUser deletes and returns the entry bound to id. Idempotent: a
// second call for the same id reports no entry and changes nothing.
func (r *Registry) RemoveUser(id string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return u, true
		}
	}
	return domain.User{}, false
}

// GetUser looks up the entry bound to a connection id.
func (r *Registry) GetUser(id string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// UsersInRoom returns the members of a room in join order.
// The room name is normalized the same way AddUser normalizes it.
// An unknown or empty room yields an empty slice, not an error.
func (r *Registry) UsersInRoom(room string) []domain.User {
	room = domain.Normalize(room)

	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Filter(r.users, func(u domain.User, _ int) bool {
		return u.Room == room
	})
}

// Size returns the number of joined connections across all rooms.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Rooms returns the number of distinct occupied rooms.
func (r *Registry) Rooms() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(lo.UniqBy(r.users, func(u domain.User) string { return u.Room }))
}
