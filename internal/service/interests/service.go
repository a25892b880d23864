// Package interests is the interest catalog: a controlled, normalized
// vocabulary of interest tags plus the user <-> interest association.
package interests

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-matching/internal/db"
	svcErr "github.com/oggyb/muzz-matching/internal/errors"
	"github.com/oggyb/muzz-matching/internal/metrics"
	"github.com/oggyb/muzz-matching/internal/repository"
	"github.com/oggyb/muzz-matching/internal/tracing"
)

const (
	MaxNameLength   = 50
	MaxPerUser      = 10
	DefaultPopular  = 20
	MaxPopular      = 100
	DefaultSearch   = 10
	MaxSearch       = 50
	popularCacheTop = MaxPopular
)

// PopularCache stores the popularity ranking between writes.
// *cache.RedisCache satisfies it.
type PopularCache interface {
	GetPopular(ctx context.Context) ([]repository.InterestUsage, bool, error)
	SetPopular(ctx context.Context, ranking []repository.InterestUsage) error
	InvalidatePopular(ctx context.Context) error
}

// Service implements the interest catalog operations.
type Service struct {
	db        *gorm.DB
	interests *repository.InterestRepository
	users     *repository.UserRepository
	cache     PopularCache
	log       *slog.Logger
}

// NewService wires the catalog. cache may be nil, in which case every
// popularity request goes to the store.
func NewService(database *gorm.DB, cache PopularCache, logger *slog.Logger) *Service {
	return &Service{
		db:        database,
		interests: repository.NewInterestRepository(database),
		users:     repository.NewUserRepository(database),
		cache:     cache,
		log:       logger,
	}
}

// Normalize trims and lower-cases every name, drops empties and removes
// duplicates, keeping first-seen order. A name longer than MaxNameLength
// after trimming is a ValidationError.
func Normalize(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		n := strings.ToLower(strings.TrimSpace(raw))
		if n == "" {
			continue
		}
		if utf8.RuneCountInString(n) > MaxNameLength {
			return nil, svcErr.Validation("interests", fmt.Sprintf("%q exceeds %d characters", n, MaxNameLength))
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// ResolveOrCreate returns the interests for names, creating the missing
// ones. Concurrent callers with overlapping names converge on the same rows.
//
// Example:
//
//	svc.ResolveOrCreate(ctx, []string{"  Music ", "music", "MUSIC"}) // one interest: "music"
func (s *Service) ResolveOrCreate(ctx context.Context, names []string) ([]db.Interest, error) {
	normalized, err := Normalize(names)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return nil, svcErr.Validation("interests", "at least one non-empty interest is required")
	}
	return s.resolve(ctx, s.interests, normalized)
}

// resolve expects normalized, non-empty, de-duplicated names.
func (s *Service) resolve(ctx context.Context, repo *repository.InterestRepository, names []string) ([]db.Interest, error) {
	existing, err := repo.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(existing) == len(names) {
		return existing, nil
	}

	have := make(map[string]struct{}, len(existing))
	for _, in := range existing {
		have[in.Name] = struct{}{}
	}
	missing := make([]string, 0, len(names)-len(existing))
	for _, n := range names {
		if _, ok := have[n]; !ok {
			missing = append(missing, n)
		}
	}

	// a losing concurrent creator falls back to the lookup below
	if err := repo.CreateMissing(ctx, missing); err != nil && !svcErr.IsConflict(err) {
		return nil, err
	}

	all, err := repo.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(all) != len(names) {
		return nil, fmt.Errorf("resolve interests: expected %d rows, found %d", len(names), len(all))
	}
	if created := len(all) - len(existing); created > 0 {
		metrics.InterestsCreated.Add(float64(created))
		if s.cache != nil {
			s.invalidatePopular(ctx)
		}
	}
	return all, nil
}

// Popular returns interests ranked by number of distinct users.
// limit <= 0 means DefaultPopular; larger than MaxPopular is clamped.
func (s *Service) Popular(ctx context.Context, limit int) ([]repository.InterestUsage, error) {
	limit = clamp(limit, DefaultPopular, MaxPopular)

	if s.cache != nil {
		ranking, ok, err := s.cache.GetPopular(ctx)
		if err != nil {
			s.log.Warn("popular interests cache read failed", "err", err)
		}
		metrics.CacheHit("popular_interests", ok)
		if ok {
			return head(ranking, limit), nil
		}
	}

	fetch := limit
	if s.cache != nil {
		fetch = popularCacheTop
	}
	ranking, err := s.interests.Popular(ctx, fetch)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetPopular(ctx, ranking); err != nil {
			s.log.Warn("popular interests cache write failed", "err", err)
		}
	}
	return head(ranking, limit), nil
}

// Search finds interests whose name contains query, case-insensitively.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]db.Interest, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, svcErr.Validation("query", "must not be empty")
	}
	if utf8.RuneCountInString(q) > MaxNameLength {
		return nil, svcErr.Validation("query", fmt.Sprintf("must be at most %d characters", MaxNameLength))
	}
	return s.interests.Search(ctx, q, clamp(limit, DefaultSearch, MaxSearch))
}

// ReplaceUserInterests supersedes the user's interests with names.
//
// Behavior:
//   - Input is validated before anything is written: the normalized set
//     must hold between 1 and MaxPerUser names.
//   - Unknown user is a NotFoundError.
//   - Lookup, creation and association swap share one transaction.
func (s *Service) ReplaceUserInterests(ctx context.Context, userID uint64, names []string) (result []db.Interest, err error) {
	ctx, span := tracing.Start(ctx, "interests.ReplaceUserInterests",
		attribute.Int64("user_id", int64(userID)),
		attribute.Int("names", len(names)),
	)
	defer func() { tracing.End(span, err) }()

	normalized, err := Normalize(names)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return nil, svcErr.Validation("interests", "at least one non-empty interest is required")
	}
	if len(normalized) > MaxPerUser {
		return nil, svcErr.Validation("interests", fmt.Sprintf("at most %d interests allowed, got %d", MaxPerUser, len(normalized)))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.users.WithTx(tx).GetByID(ctx, userID); err != nil {
			return err
		}
		repo := s.interests.WithTx(tx)
		resolved, err := s.resolve(ctx, repo, normalized)
		if err != nil {
			return err
		}
		ids := make([]uint64, 0, len(resolved))
		for _, in := range resolved {
			ids = append(ids, in.ID)
		}
		if err := repo.ReplaceForUser(ctx, userID, ids); err != nil {
			return err
		}
		result = resolved
		return nil
	})
	if err != nil {
		return nil, svcErr.FromStore("replace user interests", err)
	}

	if s.cache != nil {
		s.invalidatePopular(ctx)
	}
	s.log.Debug("user interests replaced", "user_id", userID, "count", len(result))
	return result, nil
}

// UserInterests lists the user's interests by name.
func (s *Service) UserInterests(ctx context.Context, userID uint64) ([]db.Interest, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.interests.ForUser(ctx, userID)
}

func (s *Service) invalidatePopular(ctx context.Context) {
	if err := s.cache.InvalidatePopular(ctx); err != nil {
		s.log.Warn("popular interests cache invalidation failed", "err", err)
	}
}

func clamp(v, def, hi int) int {
	if v <= 0 {
		return def
	}
	if v > hi {
		return hi
	}
	return v
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
