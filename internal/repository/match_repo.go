package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-matching/internal/db"
	svcErr "github.com/oggyb/muzz-matching/internal/errors"
	"github.com/oggyb/muzz-matching/internal/utils/pagination"
)

// MatchRepository is the match ledger: the durable record of directed like
// edges and their mutual flag. Edges are only ever inserted or flipped to
// mutual; nothing here deletes.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// WithTx returns a copy of the repository bound to tx.
func (r *MatchRepository) WithTx(tx *gorm.DB) *MatchRepository {
	return &MatchRepository{db: tx}
}

// FindEdge returns the liker -> liked edge, or nil when there is none.
func (r *MatchRepository) FindEdge(ctx context.Context, likerID, likedID uint64) (*db.Match, error) {
	var m db.Match
	err := r.db.WithContext(ctx).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, svcErr.FromStore("find edge", err)
	}
	return &m, nil
}

// CreateEdge inserts a new directed edge. A second insert for the same
// ordered pair fails with ConflictError (unique index idx_matches_pair).
func (r *MatchRepository) CreateEdge(ctx context.Context, edge *db.Match) error {
	return svcErr.FromStore("create edge", r.db.WithContext(ctx).Create(edge).Error)
}

// MarkMutual flips an edge to mutual. Already-mutual edges are left alone.
func (r *MatchRepository) MarkMutual(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ? AND mutual = ?", id, false).
		UpdateColumn("mutual", true).Error
	return svcErr.FromStore("mark mutual", err)
}

// ListByLiker returns the edges created by likerID, newest first.
//
// Behavior:
//   - Both one-way and mutual edges are returned; onlyMutual narrows it.
//   - Ordered by id DESC (insertion order).
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.ListByLiker(ctx, 42, nil, 20, false) // first 20 people user 42 liked
func (r *MatchRepository) ListByLiker(
	ctx context.Context,
	likerID uint64,
	paginationToken *string,
	limit int,
	onlyMutual bool,
) ([]db.Match, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.Validation("pagination_token", err.Error())
	}

	query := r.db.WithContext(ctx).
		Where("liker_id = ?", likerID).
		Order("id DESC").
		Limit(limit + 1)
	if onlyMutual {
		query = query.Where("mutual = ?", true)
	}
	if cursor.LastID > 0 {
		query = query.Where("id < ?", cursor.LastID)
	}

	var matches []db.Match
	if err := query.Find(&matches).Error; err != nil {
		return nil, nil, svcErr.FromStore("list matches", err)
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(matches) > limit {
		last := matches[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{LastID: last.ID})
		nextToken = &token
		matches = matches[:limit]
	}

	return matches, nextToken, nil
}

// CountLikers returns how many users have an edge toward likedID,
// one-way or mutual.
func (r *MatchRepository) CountLikers(ctx context.Context, likedID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("liked_id = ?", likedID).
		Count(&count).Error
	if err != nil {
		return 0, svcErr.FromStore("count likers", err)
	}
	return count, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
