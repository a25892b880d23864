package matching

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-matching/internal/db"
	svcErr "github.com/oggyb/muzz-matching/internal/errors"
	"github.com/oggyb/muzz-matching/internal/messaging"
	"github.com/oggyb/muzz-matching/internal/metrics"
	"github.com/oggyb/muzz-matching/internal/repository"
	"github.com/oggyb/muzz-matching/internal/tracing"
)

// Transition names what a like did to the pair.
type Transition string

const (
	// TransitionLiked created a one-way edge.
	TransitionLiked Transition = "liked"
	// TransitionRepeat found the liker's edge already in place.
	TransitionRepeat Transition = "repeat"
	// TransitionMutual promoted the pair to a mutual match.
	TransitionMutual Transition = "mutual"
	// TransitionAlreadyMutual found the pair already matched.
	TransitionAlreadyMutual Transition = "already_mutual"
)

// Outcome is the result of a like.
type Outcome struct {
	// Edge is the liker -> target edge as it stands after the like.
	Edge db.Match
	// Reverse is the target -> liker edge, nil when the target never liked back.
	Reverse      *db.Match
	BecameMutual bool
	Transition   Transition
}

// LikeCountInvalidator drops a user's cached liked-you count.
// *cache.RedisCache satisfies it.
type LikeCountInvalidator interface {
	InvalidateLikeCount(ctx context.Context, userID uint64) error
}

// LikeProcessor applies likes to the match ledger.
type LikeProcessor struct {
	db        *gorm.DB
	users     *repository.UserRepository
	matches   *repository.MatchRepository
	counts    LikeCountInvalidator
	publisher messaging.Publisher
	log       *slog.Logger
}

// NewLikeProcessor wires the processor. counts and publisher may be nil.
func NewLikeProcessor(database *gorm.DB, counts LikeCountInvalidator, publisher messaging.Publisher, logger *slog.Logger) *LikeProcessor {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &LikeProcessor{
		db:        database,
		users:     repository.NewUserRepository(database),
		matches:   repository.NewMatchRepository(database),
		counts:    counts,
		publisher: publisher,
		log:       logger,
	}
}

// ProcessLike records that likerID likes targetID.
//
// Behavior:
//   - Self-like fails with ErrSelfMatch; unknown users with NotFoundError.
//   - Target already liked the liker: both edges become mutual and both
//     users gain one reputation point.
//   - Pair already mutual, or liker already liked target: nothing changes.
//   - Otherwise a one-way edge is created and the target gains one point.
//   - Runs in one transaction with both user rows locked; a conflict is
//     retried once. Cancellation rolls everything back.
func (p *LikeProcessor) ProcessLike(ctx context.Context, likerID, targetID uint64) (out *Outcome, err error) {
	if likerID == targetID {
		return nil, svcErr.ErrSelfMatch
	}

	ctx, span := tracing.Start(ctx, "matching.ProcessLike",
		attribute.Int64("liker_id", int64(likerID)),
		attribute.Int64("target_id", int64(targetID)),
	)
	defer func() { tracing.End(span, err) }()

	out, err = p.apply(ctx, likerID, targetID)
	if svcErr.IsConflict(err) {
		metrics.LikeRetries.Inc()
		p.log.Warn("like conflicted, retrying", "liker_id", likerID, "target_id", targetID, "err", err)
		out, err = p.apply(ctx, likerID, targetID)
	}
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("transition", string(out.Transition)))
	metrics.LikesTotal.WithLabelValues(string(out.Transition)).Inc()
	p.afterCommit(ctx, likerID, targetID, out)
	return out, nil
}

// apply runs one attempt of the like transaction.
func (p *LikeProcessor) apply(ctx context.Context, likerID, targetID uint64) (*Outcome, error) {
	var out Outcome
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := p.users.WithTx(tx)
		matches := p.matches.WithTx(tx)

		if _, _, err := users.LockPair(ctx, likerID, targetID); err != nil {
			return err
		}

		reverse, err := matches.FindEdge(ctx, targetID, likerID)
		if err != nil {
			return err
		}
		forward, err := matches.FindEdge(ctx, likerID, targetID)
		if err != nil {
			return err
		}

		switch {
		case reverse != nil && !reverse.Mutual:
			if err := matches.MarkMutual(ctx, reverse.ID); err != nil {
				return err
			}
			reverse.Mutual = true
			if forward == nil {
				forward = &db.Match{LikerID: likerID, LikedID: targetID, Mutual: true}
				if err := matches.CreateEdge(ctx, forward); err != nil {
					return err
				}
			} else {
				if err := matches.MarkMutual(ctx, forward.ID); err != nil {
					return err
				}
				forward.Mutual = true
			}
			if err := users.IncrementReputation(ctx, likerID, targetID); err != nil {
				return err
			}
			out = Outcome{Edge: *forward, Reverse: reverse, BecameMutual: true, Transition: TransitionMutual}

		case reverse != nil:
			if forward == nil {
				// both directions must exist once a pair is mutual
				p.log.Warn("mutual pair missing forward edge, repairing", "liker_id", likerID, "target_id", targetID)
				forward = &db.Match{LikerID: likerID, LikedID: targetID, Mutual: true}
				if err := matches.CreateEdge(ctx, forward); err != nil {
					return err
				}
			}
			out = Outcome{Edge: *forward, Reverse: reverse, Transition: TransitionAlreadyMutual}

		case forward != nil:
			out = Outcome{Edge: *forward, Transition: TransitionRepeat}

		default:
			forward = &db.Match{LikerID: likerID, LikedID: targetID}
			if err := matches.CreateEdge(ctx, forward); err != nil {
				return err
			}
			if err := users.IncrementReputation(ctx, targetID); err != nil {
				return err
			}
			out = Outcome{Edge: *forward, Transition: TransitionLiked}
		}
		return nil
	})
	if err != nil {
		return nil, svcErr.FromStore("process like", err)
	}
	return &out, nil
}

// afterCommit runs the best-effort side effects of a committed like.
func (p *LikeProcessor) afterCommit(ctx context.Context, likerID, targetID uint64, out *Outcome) {
	if out.Transition == TransitionRepeat {
		return
	}
	if p.counts != nil {
		if err := p.counts.InvalidateLikeCount(ctx, targetID); err != nil {
			p.log.Warn("like count invalidation failed", "user_id", targetID, "err", err)
		}
	}
	if !out.BecameMutual {
		return
	}

	now := time.Now().UTC()
	events := []messaging.MutualMatchEvent{
		{UserID: likerID, MatchedWith: targetID, MatchID: out.Edge.ID, OccurredAt: now},
		{UserID: targetID, MatchedWith: likerID, MatchID: out.Reverse.ID, OccurredAt: now},
	}
	for _, evt := range events {
		if err := p.publisher.PublishMutualMatch(ctx, evt); err != nil {
			p.log.Warn("mutual match event not published", "user_id", evt.UserID, "err", err)
		}
	}
	p.log.Info("mutual match", "liker_id", likerID, "target_id", targetID)
}
