package store

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/kracekumar/postpipe/model"
	"github.com/kracekumar/postpipe/utils"
)

// uniqueViolation is the postgres error code for a violated unique
// constraint, e.g. a duplicate title.
const uniqueViolation = "23505"

// PostStore persists validated drafts.
type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Insert writes one post row and returns the persisted record carrying
// the generated id and the server-assigned created_at. The write runs
// inside a transaction so no partial row is ever observable. There is
// no pre-check for duplicate titles; the unique constraint is the only
// duplicate guard, which is what keeps concurrent identical submissions
// down to exactly one winner.
func (s *PostStore) Insert(ctx context.Context, draft *model.PostDraft, authorID int64) (*model.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, storeCallTimeout)
	defer cancel()

	post := model.Post{
		Title:        draft.Title,
		MarkdownBody: draft.MarkdownBody,
		Tags:         pq.StringArray(draft.Tags),
		PostBy:       authorID,
	}

	// gorm fills Id and CreatedAt on Create, the RETURNING clause of the
	// postgres driver brings both back in the same statement.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&post).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Wrapf(utils.ErrConstraintViolation, "insert post: %v", err)
		}
		return nil, errors.Wrapf(utils.ErrStoreUnavailable, "insert post: %v", err)
	}
	return &post, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
