package matching

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-matching/internal/db"
	"github.com/oggyb/muzz-matching/internal/metrics"
	"github.com/oggyb/muzz-matching/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// LikeCountCache caches liked-you counts. *cache.RedisCache satisfies it.
type LikeCountCache interface {
	GetLikeCount(ctx context.Context, userID uint64) (int64, bool, error)
	SetLikeCount(ctx context.Context, userID uint64, count int64) error
}

// Ledger serves read access to the match ledger.
type Ledger struct {
	users   *repository.UserRepository
	matches *repository.MatchRepository
	counts  LikeCountCache
	log     *slog.Logger
}

// NewLedger builds the reader. counts may be nil.
func NewLedger(database *gorm.DB, counts LikeCountCache, logger *slog.Logger) *Ledger {
	return &Ledger{
		users:   repository.NewUserRepository(database),
		matches: repository.NewMatchRepository(database),
		counts:  counts,
		log:     logger,
	}
}

// ListMatches pages through the edges viewerID created, newest first.
// onlyMutual restricts the page to mutual matches.
func (l *Ledger) ListMatches(ctx context.Context, viewerID uint64, token *string, pageSize int, onlyMutual bool) ([]db.Match, *string, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, MaxPageSize)

	if _, err := l.users.GetByID(ctx, viewerID); err != nil {
		return nil, nil, err
	}
	return l.matches.ListByLiker(ctx, viewerID, token, pageSize, onlyMutual)
}

// CountLikedYou returns how many users have liked userID, mutual or not.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. If cache miss or read error, falls back to the ledger.
//  3. On a ledger read, stores the count back in Redis.
func (l *Ledger) CountLikedYou(ctx context.Context, userID uint64) (int64, error) {
	if l.counts != nil {
		n, ok, err := l.counts.GetLikeCount(ctx, userID)
		if err != nil {
			l.log.Warn("like count cache read failed", "user_id", userID, "err", err)
		}
		metrics.CacheHit("like_count", ok)
		if ok {
			return n, nil
		}
	}

	if _, err := l.users.GetByID(ctx, userID); err != nil {
		return 0, err
	}
	count, err := l.matches.CountLikers(ctx, userID)
	if err != nil {
		return 0, err
	}

	if l.counts != nil {
		if err := l.counts.SetLikeCount(ctx, userID, count); err != nil {
			l.log.Warn("like count cache write failed", "user_id", userID, "err", err)
		}
	}
	return count, nil
}
