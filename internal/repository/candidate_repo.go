package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-matching/internal/db"
	svcErr "github.com/oggyb/muzz-matching/internal/errors"
)

// CandidateFilter describes who may be suggested to a viewer.
type CandidateFilter struct {
	ViewerID uint64
	// Genders restricts candidates to these values; nil means any gender.
	Genders []db.Gender
	// ExcludeIDs are dropped on top of the standard exclusions.
	ExcludeIDs []uint64
}

// RankedCandidate is a user with the number of interests shared with the viewer.
type RankedCandidate struct {
	db.User     `gorm:"embedded"`
	SharedCount int64
}

// CandidateRepository runs the set-based suggestion queries. Nothing is
// loaded into memory beyond the requested page.
type CandidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new repository bound to the given DB connection.
func NewCandidateRepository(database *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: database}
}

// ByInterests ranks eligible users sharing at least one interest with the
// viewer by (shared count, reputation, created_at, id), all descending.
func (r *CandidateRepository) ByInterests(ctx context.Context, f CandidateFilter, limit int) ([]RankedCandidate, error) {
	viewerInterests := r.db.
		Table("user_interests").
		Select("interest_id").
		Where("user_id = ?", f.ViewerID)

	query := r.db.WithContext(ctx).
		Table("users u").
		Select("u.*, COUNT(ui.interest_id) AS shared_count").
		Joins("JOIN user_interests ui ON ui.user_id = u.id").
		Where("ui.interest_id IN (?)", viewerInterests)

	var out []RankedCandidate
	err := eligible(query, f).
		Group("u.id").
		Order("shared_count DESC, u.reputation DESC, u.created_at DESC, u.id DESC").
		Limit(limit).
		Scan(&out).Error
	return out, svcErr.FromStore("rank by interests", err)
}

// ByReputation ranks eligible users by (reputation, created_at, id), all
// descending, ignoring interests.
func (r *CandidateRepository) ByReputation(ctx context.Context, f CandidateFilter, limit int) ([]db.User, error) {
	query := r.db.WithContext(ctx).
		Table("users u").
		Select("u.*")

	var out []db.User
	err := eligible(query, f).
		Order("u.reputation DESC, u.created_at DESC, u.id DESC").
		Limit(limit).
		Scan(&out).Error
	return out, svcErr.FromStore("rank by reputation", err)
}

// ConnectedIDs returns every user linked to userID by an edge in either
// direction.
func (r *CandidateRepository) ConnectedIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Raw(`
		SELECT liked_id FROM matches WHERE liker_id = ?
		UNION
		SELECT liker_id FROM matches WHERE liked_id = ?`, userID, userID).
		Scan(&ids).Error
	return ids, svcErr.FromStore("connected users", err)
}

// eligible applies the exclusions every suggestion query shares: the viewer,
// inactive users, users linked to the viewer by any edge, the gender policy
// and explicit exclusions.
func eligible(query *gorm.DB, f CandidateFilter) *gorm.DB {
	query = query.
		Where("u.id <> ?", f.ViewerID).
		Where("u.active = ?", true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM matches m
				WHERE (m.liker_id = ? AND m.liked_id = u.id)
				   OR (m.liker_id = u.id AND m.liked_id = ?)
			)`, f.ViewerID, f.ViewerID)

	if f.Genders != nil {
		genders := make([]string, 0, len(f.Genders))
		for _, g := range f.Genders {
			genders = append(genders, string(g))
		}
		query = query.Where("u.gender IN ?", genders)
	}
	if len(f.ExcludeIDs) > 0 {
		query = query.Where("u.id NOT IN ?", f.ExcludeIDs)
	}
	return query
}
