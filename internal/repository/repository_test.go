package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/muzz-matching/internal/db"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func seedUsers(t *testing.T, database *gorm.DB, users ...*db.User) {
	t.Helper()
	for i, u := range users {
		if u.Username == "" {
			u.Username = "u" + string(rune('a'+i))
		}
		u.Email = u.Username + "@example.com"
		u.PasswordHash = "x"
		if u.Gender == "" {
			u.Gender = db.GenderFemale
		}
		require.NoError(t, database.Create(u).Error)
	}
}

func TestModels_AutoMigrateIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	assert.NoError(t, db.AutoMigrate(database))
	for _, m := range db.Models() {
		assert.True(t, database.Migrator().HasTable(m))
	}
	assert.True(t, database.Migrator().HasIndex(&db.Match{}, "idx_matches_pair"))
}

func TestUserReputation_Clamp(t *testing.T) {
	u := db.User{Reputation: 2}
	u.AdjustReputation(-5)
	assert.Zero(t, u.Reputation)
	u.AdjustReputation(3)
	assert.Equal(t, int64(3), u.Reputation)

	for _, start := range []int64{0, 1, 7, 1000} {
		assert.Zero(t, db.ClampReputation(start-start-1))
		assert.Equal(t, start, db.ClampReputation(start))
	}
}

func TestParseGender(t *testing.T) {
	assert.Equal(t, db.GenderMale, db.ParseGender(" male "))
	assert.Equal(t, db.GenderFemale, db.ParseGender("Female"))
	assert.Equal(t, db.GenderOther, db.ParseGender(""))
	assert.Equal(t, db.GenderOther, db.ParseGender("robot"))
}

func countRows(t *testing.T, database *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.Model(model).Count(&n).Error)
	return n
}
