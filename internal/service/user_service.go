package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookshelf/internal/cache"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"
)

const userCacheTTL = 5 * time.Minute

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// UserService resolves the authenticated user's full record.
type UserService interface {
	Me(ctx context.Context, userID string) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(users repository.UserRepository, cache *cache.Client) UserService {
	return &userService{users: users, cache: cache}
}

// Me re-fetches the full current user record by id. The token only
// carries identity claims, not saved books, so the record comes from the
// store through a read-through cache.
func (s *userService) Me(ctx context.Context, userID string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(userID)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			cached.BookCount = len(cached.SavedBooks)
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(userID), payload, userCacheTTL)
	}
	return user, nil
}
