package service

import (
	"context"

	"bookshelf/internal/cache"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"
)

// CollectionService applies add/remove mutations on a user's saved-book
// set. Both operations are idempotent: re-adding an existing book and
// removing an absent one succeed without changing the collection.
type CollectionService interface {
	SaveBook(ctx context.Context, userID string, book model.SavedBook) (*model.User, error)
	RemoveBook(ctx context.Context, userID, bookID string) (*model.User, error)
}

type collectionService struct {
	users repository.UserRepository
	cache *cache.Client
}

// NewCollectionService builds a CollectionService with repository and cache.
func NewCollectionService(users repository.UserRepository, cache *cache.Client) CollectionService {
	return &collectionService{users: users, cache: cache}
}

func (s *collectionService) SaveBook(ctx context.Context, userID string, book model.SavedBook) (*model.User, error) {
	user, err := s.users.AddBook(ctx, userID, book)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))
	return user, nil
}

func (s *collectionService) RemoveBook(ctx context.Context, userID, bookID string) (*model.User, error) {
	user, err := s.users.RemoveBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))
	return user, nil
}
