package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-matching/internal/cache"
	"github.com/oggyb/muzz-matching/internal/config"
	"github.com/oggyb/muzz-matching/internal/messaging"
	"github.com/oggyb/muzz-matching/internal/service/interests"
	"github.com/oggyb/muzz-matching/internal/service/matching"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.) and the
// services built on them. The entry point owns its lifecycle.
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Publisher  messaging.Publisher
	Logger     *slog.Logger

	Interests *interests.Service
	Engine    *matching.Engine
	Likes     *matching.LikeProcessor
	Ledger    *matching.Ledger
}

// New creates a new AppContext. rdb and publisher may be nil: the services
// then run without caching and without match events.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, publisher messaging.Publisher, logger *slog.Logger) (*AppContext, error) {
	policy, err := matching.ParseGenderPolicy(cfg.Matching.GenderPolicy)
	if err != nil {
		return nil, err
	}
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}

	a := &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Publisher:  publisher,
		Logger:     logger,
	}

	// keep nil caches as nil interfaces
	var (
		popular     interests.PopularCache
		counts      matching.LikeCountCache
		invalidator matching.LikeCountInvalidator
	)
	if rdb != nil {
		popular, counts, invalidator = rdb, rdb, rdb
	}

	a.Interests = interests.NewService(db, popular, logger.With("component", "interests"))
	a.Engine = matching.NewEngine(db, matching.Options{
		Policy:       policy,
		DefaultLimit: cfg.Matching.DefaultLimit,
		MaxLimit:     cfg.Matching.MaxLimit,
	}, logger.With("component", "matching"))
	a.Likes = matching.NewLikeProcessor(db, invalidator, publisher, logger.With("component", "likes"))
	a.Ledger = matching.NewLedger(db, counts, logger.With("component", "ledger"))
	return a, nil
}
