package store

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-cms/core/internal/docstore"
	"github.com/inkwell-cms/core/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore persists web log users. Deleting a user is guarded: a user who
// still authors posts or pages cannot be removed.
type UserStore struct {
	db    *gorm.DB
	docs  *docstore.Repository[models.User]
	posts *PostStore
	pages *PageStore
}

func NewUserStore(db *gorm.DB, codec docstore.Serializer) *UserStore {
	return &UserStore{
		db:    db,
		docs:  docstore.NewRepository[models.User](db, userTable, codec),
		posts: NewPostStore(db, codec),
		pages: NewPageStore(db, codec),
	}
}

// FindByID returns the user, or (nil, nil).
func (s *UserStore) FindByID(ctx context.Context, webLogID, id string) (*models.User, error) {
	return s.docs.FindByID(ctx, webLogID, id)
}

// FindByEmail returns the user with the given email, or (nil, nil).
func (s *UserStore) FindByEmail(ctx context.Context, webLogID, email string) (*models.User, error) {
	return s.docs.First(ctx, webLogID, docstore.DataEquals(email, "email"))
}

// FindByWebLog returns the web log's users ordered by name.
func (s *UserStore) FindByWebLog(ctx context.Context, webLogID string) ([]*models.User, error) {
	return s.docs.Find(ctx, webLogID,
		docstore.OrderByData("lastName", false),
		docstore.OrderByData("firstName", false))
}

// Add stores a new user. PasswordHash must already be set; use
// HashPassword for the clear text.
func (s *UserStore) Add(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.NewID()
	}
	user.CreatedOn = user.CreatedOn.UTC()
	return s.docs.Insert(ctx, user.WebLogID, user.ID, user)
}

// Update replaces the user document, reporting false when the user does
// not exist for this web log.
func (s *UserStore) Update(ctx context.Context, user *models.User) (bool, error) {
	return s.docs.Replace(ctx, user.WebLogID, user.ID, user)
}

// SetLastSeen stamps the user's last-seen time, ignoring missing users.
func (s *UserStore) SetLastSeen(ctx context.Context, webLogID, id string) error {
	user, err := s.docs.FindByID(ctx, webLogID, id)
	if err != nil || user == nil {
		return err
	}
	now := time.Now().UTC()
	user.LastSeenOn = &now
	_, err = s.docs.Replace(ctx, webLogID, id, user)
	return err
}

// Delete removes the user unless they author any post or page, in which
// case it fails with ErrUserInUse. The referential check is application
// level; the store enforces no constraint. Reports false when no user
// matched.
func (s *UserStore) Delete(ctx context.Context, webLogID, id string) (bool, error) {
	exists, err := s.docs.Exists(ctx, webLogID, id)
	if err != nil || !exists {
		return false, err
	}
	if authored, err := s.posts.HasAnyByAuthor(ctx, webLogID, id); err != nil {
		return false, err
	} else if authored {
		return false, fmt.Errorf("user %s: %w", id, ErrUserInUse)
	}
	if authored, err := s.pages.HasAnyByAuthor(ctx, webLogID, id); err != nil {
		return false, err
	} else if authored {
		return false, fmt.Errorf("user %s: %w", id, ErrUserInUse)
	}
	if err := s.docs.Delete(ctx, webLogID, id); err != nil {
		return false, err
	}
	return true, nil
}

// HashPassword produces the bcrypt hash stored on a user.
func HashPassword(clear string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(clear), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether clear matches the user's stored hash.
func VerifyPassword(user *models.User, clear string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(clear)) == nil
}
