// Package matching holds the matching engine (ranked suggestions) and the
// like processor (the like -> mutual match state machine).
package matching

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-matching/internal/db"
	"github.com/oggyb/muzz-matching/internal/metrics"
	"github.com/oggyb/muzz-matching/internal/repository"
	"github.com/oggyb/muzz-matching/internal/tracing"
)

// Options tunes the engine.
type Options struct {
	Policy       GenderPolicy
	DefaultLimit int
	MaxLimit     int
}

// DefaultOptions are used for zero fields of Options.
var DefaultOptions = Options{
	Policy:       PolicyDifferent,
	DefaultLimit: 20,
	MaxLimit:     100,
}

// Suggestion is a ranked candidate. SharedInterests is zero for candidates
// that came from the reputation ranking.
type Suggestion struct {
	User            db.User
	SharedInterests int64
}

// Engine produces ranked candidate lists. It never writes.
type Engine struct {
	users      *repository.UserRepository
	interests  *repository.InterestRepository
	candidates *repository.CandidateRepository
	opts       Options
	log        *slog.Logger
}

// NewEngine builds an engine on top of database.
func NewEngine(database *gorm.DB, opts Options, logger *slog.Logger) *Engine {
	if opts.Policy == "" {
		opts.Policy = DefaultOptions.Policy
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultOptions.DefaultLimit
	}
	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = max(DefaultOptions.MaxLimit, opts.DefaultLimit)
	}
	return &Engine{
		users:      repository.NewUserRepository(database),
		interests:  repository.NewInterestRepository(database),
		candidates: repository.NewCandidateRepository(database),
		opts:       opts,
		log:        logger,
	}
}

// Suggest returns up to limit candidates for the viewer.
//
// Behavior:
//   - Never returns the viewer, inactive users, users connected to the
//     viewer by an edge in either direction, or genders the policy hides.
//   - Viewer with interests: candidates sharing at least one interest come
//     first, by (shared count, reputation, created_at, id) descending.
//   - The remainder (or everything, for a viewer without interests) is
//     filled by (reputation, created_at, id) descending.
//   - limit <= 0 uses the default limit; above the maximum it is clamped.
//   - Fewer eligible users than limit is not an error.
func (e *Engine) Suggest(ctx context.Context, viewerID uint64, limit int) (out []Suggestion, err error) {
	start := time.Now()
	limit = e.clampLimit(limit)

	ctx, span := tracing.Start(ctx, "matching.Suggest",
		attribute.Int64("viewer_id", int64(viewerID)),
		attribute.Int("limit", limit),
	)
	defer func() { tracing.End(span, err) }()

	viewer, err := e.users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	filter := repository.CandidateFilter{
		ViewerID: viewer.ID,
		Genders:  e.opts.Policy.AllowedGenders(viewer.Gender),
	}

	held, err := e.interests.CountForUser(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	out = make([]Suggestion, 0, limit)
	mode := "reputation"
	if held > 0 {
		mode = "interests"
		ranked, err := e.candidates.ByInterests(ctx, filter, limit)
		if err != nil {
			return nil, err
		}
		for _, c := range ranked {
			out = append(out, Suggestion{User: c.User, SharedInterests: c.SharedCount})
		}
	}

	if len(out) < limit {
		selected := make(map[uint64]struct{}, len(out))
		for _, s := range out {
			selected[s.User.ID] = struct{}{}
			filter.ExcludeIDs = append(filter.ExcludeIDs, s.User.ID)
		}
		backfill, err := e.candidates.ByReputation(ctx, filter, limit-len(out))
		if err != nil {
			return nil, err
		}
		for _, u := range backfill {
			if _, dup := selected[u.ID]; dup {
				continue
			}
			selected[u.ID] = struct{}{}
			out = append(out, Suggestion{User: u})
		}
	}

	metrics.SuggestLatency.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.SuggestResultSize.Observe(float64(len(out)))
	span.SetAttributes(attribute.String("mode", mode), attribute.Int("results", len(out)))
	e.log.Debug("suggestions computed", "viewer_id", viewerID, "mode", mode, "count", len(out))
	return out, nil
}

func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.opts.DefaultLimit
	}
	return min(limit, e.opts.MaxLimit)
}
