package db

import (
	"strings"
	"time"
)

// Gender of a user as stored in users.gender.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Genders lists every stored gender value in a fixed order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// ParseGender accepts any casing ("male", "Female") and falls back to OTHER.
func ParseGender(s string) Gender {
	switch Gender(strings.ToUpper(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	default:
		return GenderOther
	}
}

// User table.
//
// Interests are not held on the struct; the association lives in
// user_interests and is always recomputed by query.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FirstName    string `gorm:"size:64"`
	LastName     string `gorm:"size:64"`
	Active       bool   `gorm:"not null;index:idx_users_rank,priority:1"`
	Gender       Gender `gorm:"size:16;not null;default:OTHER;index:idx_users_rank,priority:2"`
	Reputation   int64  `gorm:"not null;default:0;index:idx_users_rank,priority:3,sort:desc"`
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_users_rank,priority:4,sort:desc"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// AdjustReputation applies delta in memory, never going below zero.
func (u *User) AdjustReputation(delta int64) {
	u.Reputation = ClampReputation(u.Reputation + delta)
}

// ClampReputation floors a reputation value at zero.
func ClampReputation(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// Interest is an entry of the controlled interest vocabulary.
// Name is always stored normalized (trimmed, lower-case).
type Interest struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"uniqueIndex;size:50;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// UserInterest is the explicit many-to-many join between users and interests.
//
// Composite PK: (UserID, InterestID)
// idx_user_interests_interest(interest_id, user_id) serves popularity counts
// and the shared-interest join of the matching engine.
type UserInterest struct {
	UserID     uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_user_interests_interest,priority:2"`
	InterestID uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_user_interests_interest,priority:1"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Match is a directed like edge liker -> liked.
//
// Unique (liker_id, liked_id): at most one edge per ordered pair.
// idx_matches_liked(liked_id, liker_id) serves reverse lookups and
// "who liked me" counts.
//
// Rows are never deleted; the only mutation is Mutual false -> true.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	LikerID   uint64    `gorm:"not null;uniqueIndex:idx_matches_pair,priority:1;index:idx_matches_liker_created,priority:1"`
	LikedID   uint64    `gorm:"not null;uniqueIndex:idx_matches_pair,priority:2;index:idx_matches_liked,priority:1"`
	Mutual    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_matches_liker_created,priority:2,sort:desc"`
}

// Models returns every persisted model, in dependency order.
func Models() []any {
	return []any{&User{}, &Interest{}, &UserInterest{}, &Match{}}
}
