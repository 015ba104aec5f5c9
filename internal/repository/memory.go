package repository

import (
	"context"
	"sync"

	"bookshelf/internal/apperr"
	"bookshelf/internal/model"
)

// MemoryUserRepository is an in-memory UserRepository. It mirrors the
// store contract exactly: unique username/email on create, and saved-book
// mutations that are atomic and keyed on book_id. Used in tests and as a
// storage-free development backend.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

// NewMemoryUserRepository builds an empty in-memory repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*model.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.New(apperr.KindConflict, "username or email already taken")
		}
	}

	stored := cloneUser(user)
	r.users[user.ID] = stored
	user.BookCount = len(user.SavedBooks)
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	return cloneUser(user), nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

// AddBook inserts with set semantics: an entry with the same book_id
// already present leaves the collection untouched.
func (r *MemoryUserRepository) AddBook(_ context.Context, userID string, book model.SavedBook) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}

	exists := false
	for _, saved := range user.SavedBooks {
		if saved.BookID == book.BookID {
			exists = true
			break
		}
	}
	if !exists {
		book.UserID = userID
		user.SavedBooks = append(user.SavedBooks, book)
	}
	user.BookCount = len(user.SavedBooks)
	return cloneUser(user), nil
}

// RemoveBook removes every entry matching bookID; zero matches is success.
func (r *MemoryUserRepository) RemoveBook(_ context.Context, userID, bookID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}

	kept := user.SavedBooks[:0]
	for _, saved := range user.SavedBooks {
		if saved.BookID != bookID {
			kept = append(kept, saved)
		}
	}
	user.SavedBooks = kept
	user.BookCount = len(user.SavedBooks)
	return cloneUser(user), nil
}

// Delete removes a user entirely. Not part of the UserRepository
// contract; tests use it to simulate concurrent deletion.
func (r *MemoryUserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func cloneUser(user *model.User) *model.User {
	clone := *user
	clone.SavedBooks = make([]model.SavedBook, len(user.SavedBooks))
	copy(clone.SavedBooks, user.SavedBooks)
	clone.BookCount = len(clone.SavedBooks)
	return &clone
}

var _ UserRepository = (*MemoryUserRepository)(nil)
