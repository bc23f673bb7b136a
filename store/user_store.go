package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/kracekumar/postpipe/model"
	"github.com/kracekumar/postpipe/utils"
)

// Deadline applied to every store call, expiry surfaces as
// ErrStoreUnavailable.
const storeCallTimeout = 5 * time.Second

// UserStore reads users back by their access token. It never writes.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByToken looks up the user owning the given access token. The
// access_token column is unique, so at most one row can come back. An
// empty result is utils.ErrNotFound, which is not a store failure.
func (s *UserStore) FindByToken(ctx context.Context, token string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeCallTimeout)
	defer cancel()

	var user model.User
	res := s.db.WithContext(ctx).Where("access_token = ?", token).First(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, errors.Wrapf(utils.ErrStoreUnavailable, "find user by token: %v", res.Error)
	}
	return &user, nil
}
