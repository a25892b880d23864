package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/muzz-matching/internal/db"
	svcErr "github.com/oggyb/muzz-matching/internal/errors"
)

// UserRepository is the user directory as seen by the matching engine:
// lookups, row locks and the reputation counter.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// WithTx returns a copy of the repository bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Create inserts a user. Used by seeding and tests; registration lives
// outside this service.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return svcErr.FromStore("create user", r.db.WithContext(ctx).Create(user).Error)
}

// GetByID returns the user or a NotFoundError.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("User", id)
	}
	if err != nil {
		return nil, svcErr.FromStore("get user", err)
	}
	return &user, nil
}

// LockPair takes row locks on both users, always in ascending id order so
// two transactions on the same pair can never deadlock each other.
// It fails with NotFoundError when either user is missing.
//
// Returns the users in argument order.
func (r *UserRepository) LockPair(ctx context.Context, a, b uint64) (*db.User, *db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", []uint64{a, b}).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, nil, svcErr.FromStore("lock users", err)
	}

	byID := make(map[uint64]*db.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	ua, ok := byID[a]
	if !ok {
		return nil, nil, svcErr.NotFound("User", a)
	}
	ub, ok := byID[b]
	if !ok {
		return nil, nil, svcErr.NotFound("User", b)
	}
	return ua, ub, nil
}

// IncrementReputation adds one to every listed user.
func (r *UserRepository) IncrementReputation(ctx context.Context, ids ...uint64) error {
	if len(ids) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id IN ?", ids).
		UpdateColumn("reputation", gorm.Expr("reputation + 1"))
	if res.Error != nil {
		return svcErr.FromStore("increment reputation", res.Error)
	}
	if res.RowsAffected != int64(len(ids)) {
		return fmt.Errorf("increment reputation: expected %d rows, updated %d", len(ids), res.RowsAffected)
	}
	return nil
}

// AdjustReputation applies delta to one user, clamping at zero.
func (r *UserRepository) AdjustReputation(ctx context.Context, id uint64, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		UpdateColumn("reputation", gorm.Expr(
			"CASE WHEN reputation + ? < 0 THEN 0 ELSE reputation + ? END", delta, delta,
		))
	if res.Error != nil {
		return svcErr.FromStore("adjust reputation", res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports unchanged rows as unaffected (already at the floor)
		_, err := r.GetByID(ctx, id)
		return err
	}
	return nil
}
