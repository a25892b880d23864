package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/muzz-matching/internal/db"
	"github.com/oggyb/muzz-matching/internal/logger"
	"github.com/oggyb/muzz-matching/internal/seed"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database))
	return database
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)

	opts := seed.Options{Users: 12, LikesPerUser: 4, Seed: 42, Password: "pw"}
	stats, err := seed.Run(ctx, database, opts, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Users)
	assert.Positive(t, stats.Likes)

	var users []db.User
	require.NoError(t, database.Find(&users).Error)
	assert.Len(t, users, 12)

	var matches []db.Match
	require.NoError(t, database.Find(&matches).Error)
	edges := make(map[[2]uint64]db.Match, len(matches))
	for _, m := range matches {
		edges[[2]uint64{m.LikerID, m.LikedID}] = m
	}
	mutualEdges := 0
	for pair, m := range edges {
		assert.NotEqual(t, pair[0], pair[1])
		if m.Mutual {
			mutualEdges++
			back, ok := edges[[2]uint64{pair[1], pair[0]}]
			require.True(t, ok, "mutual edge without its reverse")
			assert.True(t, back.Mutual)
		}
	}
	assert.Equal(t, 2*stats.Mutual, mutualEdges)

	// every edge credited its recipient once, every promotion both users once
	var total int64
	require.NoError(t, database.Model(&db.User{}).Select("COALESCE(SUM(reputation), 0)").Scan(&total).Error)
	assert.Equal(t, int64(len(edges)+mutualEdges/2), total)

	// running again starts from scratch
	_, err = seed.Run(ctx, database, opts, logger.Discard())
	require.NoError(t, err)
	var n int64
	require.NoError(t, database.Model(&db.User{}).Count(&n).Error)
	assert.Equal(t, int64(12), n)
}
