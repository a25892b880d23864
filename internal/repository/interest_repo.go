package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/muzz-matching/internal/db"
	svcErr "github.com/oggyb/muzz-matching/internal/errors"
)

// InterestRepository provides data access for the interest vocabulary and
// the user_interests association.
type InterestRepository struct {
	db *gorm.DB
}

// InterestUsage is an interest with the number of distinct users holding it.
type InterestUsage struct {
	ID        uint64
	Name      string
	CreatedAt time.Time
	UserCount int64
}

// NewInterestRepository creates a new repository bound to the given DB connection.
func NewInterestRepository(database *gorm.DB) *InterestRepository {
	return &InterestRepository{db: database}
}

// WithTx returns a copy of the repository bound to tx.
func (r *InterestRepository) WithTx(tx *gorm.DB) *InterestRepository {
	return &InterestRepository{db: tx}
}

// FindByNames returns the interests whose (already normalized) names are
// listed, ordered by id.
func (r *InterestRepository) FindByNames(ctx context.Context, names []string) ([]db.Interest, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var interests []db.Interest
	err := r.db.WithContext(ctx).
		Where("name IN ?", names).
		Order("id").
		Find(&interests).Error
	return interests, svcErr.FromStore("find interests", err)
}

// CreateMissing inserts the given names, silently skipping rows another
// writer created first (unique index on name).
func (r *InterestRepository) CreateMissing(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	rows := make([]db.Interest, 0, len(names))
	for _, n := range names {
		rows = append(rows, db.Interest{Name: n})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&rows).Error
	return svcErr.FromStore("create interests", err)
}

// Popular ranks interests by number of distinct users, descending.
// Ties are broken by id ascending so results are reproducible.
//
// Example:
//
//	repo.Popular(ctx, 20) // top 20 interests
func (r *InterestRepository) Popular(ctx context.Context, limit int) ([]InterestUsage, error) {
	var out []InterestUsage
	err := r.db.WithContext(ctx).
		Table("interests i").
		Select("i.id, i.name, i.created_at, COUNT(DISTINCT ui.user_id) AS user_count").
		Joins("LEFT JOIN user_interests ui ON ui.interest_id = i.id").
		Group("i.id, i.name, i.created_at").
		Order("user_count DESC, i.id ASC").
		Limit(limit).
		Scan(&out).Error
	return out, svcErr.FromStore("popular interests", err)
}

// Search does a case-insensitive substring match on name.
//
// Behavior:
//   - query must already be normalized (trimmed, lower-case).
//   - LIKE wildcards in the query are matched literally.
//   - Ordered: exact match, then prefix matches, then the rest; name, id.
func (r *InterestRepository) Search(ctx context.Context, query string, limit int) ([]db.Interest, error) {
	escaped := escapeLike(query)
	var interests []db.Interest
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+escaped+"%").
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN LOWER(name) = ? THEN 0 WHEN LOWER(name) LIKE ? ESCAPE '!' THEN 1 ELSE 2 END, name ASC, id ASC",
			Vars:               []any{query, escaped + "%"},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&interests).Error
	return interests, svcErr.FromStore("search interests", err)
}

// ForUser returns the interests of a user ordered by name.
func (r *InterestRepository) ForUser(ctx context.Context, userID uint64) ([]db.Interest, error) {
	var interests []db.Interest
	err := r.db.WithContext(ctx).
		Table("interests").
		Select("interests.*").
		Joins("JOIN user_interests ui ON ui.interest_id = interests.id").
		Where("ui.user_id = ?", userID).
		Order("interests.name ASC").
		Scan(&interests).Error
	return interests, svcErr.FromStore("user interests", err)
}

// CountForUser returns how many interests a user holds.
func (r *InterestRepository) CountForUser(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db.UserInterest{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, svcErr.FromStore("count user interests", err)
}

// ReplaceForUser swaps the user's associations for interestIDs.
// Must run inside a transaction for the swap to be atomic.
func (r *InterestRepository) ReplaceForUser(ctx context.Context, userID uint64, interestIDs []uint64) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("user_id = ?", userID).Delete(&db.UserInterest{}).Error; err != nil {
		return svcErr.FromStore("clear user interests", err)
	}
	if len(interestIDs) == 0 {
		return nil
	}
	rows := make([]db.UserInterest, 0, len(interestIDs))
	for _, id := range interestIDs {
		rows = append(rows, db.UserInterest{UserID: userID, InterestID: id})
	}
	return svcErr.FromStore("link user interests", tx.Create(&rows).Error)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string { return likeEscaper.Replace(s) }
