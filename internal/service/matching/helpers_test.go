package matching_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/muzz-matching/internal/db"
	"github.com/oggyb/muzz-matching/internal/messaging"
)

// setup in-memory DB
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

type userOpt func(*db.User)

func gender(g db.Gender) userOpt { return func(u *db.User) { u.Gender = g } }
func reputation(r int64) userOpt { return func(u *db.User) { u.Reputation = r } }
func inactive() userOpt { return func(u *db.User) { u.Active = false } }
func createdAt(ts time.Time) userOpt { return func(u *db.User) { u.CreatedAt = ts } }

var userSeq int

// newUser inserts an active FEMALE user with zero reputation unless opts
// say otherwise.
func newUser(t *testing.T, database *gorm.DB, opts ...userOpt) *db.User {
	t.Helper()
	userSeq++
	u := &db.User{
		Username:     fmt.Sprintf("user%d", userSeq),
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: "x",
		Active:       true,
		Gender:       db.GenderFemale,
	}
	for _, o := range opts {
		o(u)
	}
	require.NoError(t, database.Create(u).Error)
	return u
}

// giveInterests links u to the named interests, creating them as needed.
func giveInterests(t *testing.T, database *gorm.DB, u *db.User, names ...string) {
	t.Helper()
	for _, n := range names {
		in := db.Interest{Name: n}
		require.NoError(t, database.Where(db.Interest{Name: n}).FirstOrCreate(&in).Error)
		require.NoError(t, database.Create(&db.UserInterest{UserID: u.ID, InterestID: in.ID}).Error)
	}
}

func addEdge(t *testing.T, database *gorm.DB, liker, liked *db.User, mutual bool) {
	t.Helper()
	require.NoError(t, database.Create(&db.Match{LikerID: liker.ID, LikedID: liked.ID, Mutual: mutual}).Error)
}

func reload(t *testing.T, database *gorm.DB, u *db.User) *db.User {
	t.Helper()
	var out db.User
	require.NoError(t, database.First(&out, u.ID).Error)
	return &out
}

func edge(t *testing.T, database *gorm.DB, liker, liked uint64) *db.Match {
	t.Helper()
	var m db.Match
	err := database.Where("liker_id = ? AND liked_id = ?", liker, liked).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	require.NoError(t, err)
	return &m
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.MutualMatchEvent
}

func (p *recordingPublisher) PublishMutualMatch(_ context.Context, evt messaging.MutualMatchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

type recordingInvalidator struct {
	mu  sync.Mutex
	ids []uint64
}

func (r *recordingInvalidator) InvalidateLikeCount(_ context.Context, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, userID)
	return nil
}
