package user

import (
	"sync"
	"time"

	"github.com/satyamraj1643/pine/internal/domain/user"
)

// MemoryRepository is an in-memory implementation of the user Repository.
// It backs the service tests and is handy for local development without a database file.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*user.User
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		byID:   make(map[int64]*user.User),
	}
}

// FindByID retrieves a User by their unique identifier.
func (r *MemoryRepository) FindByID(id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// FindByEmail retrieves a User by their email address.
func (r *MemoryRepository) FindByEmail(email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// Store saves a new User and returns the assigned id.
func (r *MemoryRepository) Store(u *user.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return 0, ErrDuplicateEmail
		}
	}

	u.ID = r.nextID
	r.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Changed = time.Now().UTC()

	copied := *u
	r.byID[u.ID] = &copied
	return u.ID, nil
}

// Update modifies an existing User.
func (r *MemoryRepository) Update(u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; !ok {
		return ErrUserNotFound
	}
	u.Changed = time.Now().UTC()
	copied := *u
	r.byID[u.ID] = &copied
	return nil
}
