package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookshelf/internal/apperr"
	"bookshelf/internal/model"
)

// UserRepository defines persistence operations over the user store,
// including the atomic saved-book mutations. Implementations serialize
// conflicting mutations on the same user at the store; callers hold no
// in-process locks.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	AddBook(ctx context.Context, userID string, book model.SavedBook) (*model.User, error)
	RemoveBook(ctx context.Context, userID, bookID string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. A duplicate username or email surfaces as a
// conflict rather than a generic store failure.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.New(apperr.KindConflict, "username or email already taken")
		}
		return apperr.Wrap(apperr.KindUnavailable, "store unavailable", err)
	}
	user.BookCount = len(user.SavedBooks)
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return loadUser(r.db.WithContext(ctx), "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return loadUser(r.db.WithContext(ctx), "email = ?", email)
}

// AddBook inserts book into the user's collection with set semantics: the
// insert is an ON CONFLICT DO NOTHING against the (user_id, book_id)
// unique index, so re-adding an existing book keeps the original entry
// untouched. The insert and the re-read happen in one transaction.
func (r *userRepository) AddBook(ctx context.Context, userID string, book model.SavedBook) (*model.User, error) {
	var updated *model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		book.ID = 0
		book.UserID = userID
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&book).Error; err != nil {
			return apperr.Wrap(apperr.KindUnavailable, "store unavailable", err)
		}
		var err error
		updated, err = loadUser(tx, "id = ?", userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveBook deletes every entry matching bookID from the user's
// collection. Zero matches is success: the desired end state already
// holds. The delete and the re-read happen in one transaction.
func (r *userRepository) RemoveBook(ctx context.Context, userID, bookID string) (*model.User, error) {
	var updated *model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&model.SavedBook{}).Error; err != nil {
			return apperr.Wrap(apperr.KindUnavailable, "store unavailable", err)
		}
		var err error
		updated, err = loadUser(tx, "id = ?", userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func userExists(tx *gorm.DB, id string) error {
	var count int64
	if err := tx.Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "store unavailable", err)
	}
	if count == 0 {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	return nil
}

func loadUser(tx *gorm.DB, query string, arg string) (*model.User, error) {
	var user model.User
	if err := tx.Preload("SavedBooks").Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.KindUnavailable, "store unavailable", err)
	}
	user.BookCount = len(user.SavedBooks)
	return &user, nil
}
