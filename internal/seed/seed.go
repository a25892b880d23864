// Package seed fills a database with demo users, interests and likes.
// Intended for development and tests only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-matching/internal/db"
	"github.com/oggyb/muzz-matching/internal/service/interests"
	"github.com/oggyb/muzz-matching/internal/service/matching"
)

// Vocabulary is the interest pool seeded users draw from.
var Vocabulary = []string{
	"music", "hiking", "chess", "travel", "cooking", "photography", "yoga",
	"gaming", "reading", "cinema", "running", "climbing", "painting", "jazz",
	"football", "dancing", "coffee", "gardening", "cycling", "theatre",
}

// Options controls the generated dataset.
type Options struct {
	Users        int
	LikesPerUser int
	// Seed makes the dataset reproducible; 0 picks a time-based seed.
	Seed int64
	// Password is hashed once and shared by every seeded user.
	Password string
}

// DefaultOptions mirrors the demo dataset used in development.
var DefaultOptions = Options{Users: 20, LikesPerUser: 12, Password: "password"}

// Stats summarizes what Run created.
type Stats struct {
	Users  int
	Likes  int
	Mutual int
}

// Run resets the database and populates it.
//
// Behavior:
//  1. Clears matches, user_interests, interests and users.
//  2. Creates opts.Users users: ~45% male, ~45% female, the rest OTHER;
//     roughly one in ten inactive.
//  3. Gives most users 1..5 interests through the interest catalog.
//  4. Sends opts.LikesPerUser likes per user through the like processor;
//     every third like is answered to guarantee mutual matches.
func Run(ctx context.Context, database *gorm.DB, opts Options, logger *slog.Logger) (Stats, error) {
	var stats Stats
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Password == "" {
		opts.Password = DefaultOptions.Password
	}
	f := gofakeit.New(opts.Seed)

	if err := reset(database); err != nil {
		return stats, err
	}
	logger.Info("cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return stats, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	users := make([]db.User, 0, opts.Users)
	for i := 1; i <= opts.Users; i++ {
		gender := db.GenderOther
		switch roll := f.Number(1, 100); {
		case roll <= 45:
			gender = db.GenderMale
		case roll <= 90:
			gender = db.GenderFemale
		}
		users = append(users, db.User{
			Username:     fmt.Sprintf("%s_%d", f.Username(), i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			FirstName:    f.FirstName(),
			LastName:     f.LastName(),
			Gender:       gender,
			Active:       f.Number(1, 10) > 1,
			CreatedAt:    f.DateRange(now.AddDate(-1, 0, 0), now),
			LastLoginAt:  f.DateRange(now.AddDate(0, -1, 0), now),
		})
	}
	if err := database.WithContext(ctx).Create(&users).Error; err != nil {
		return stats, fmt.Errorf("failed to seed users: %w", err)
	}
	stats.Users = len(users)
	logger.Info("seeded users", "count", len(users))

	catalog := interests.NewService(database, nil, logger)
	for _, u := range users {
		if f.Number(1, 10) == 1 {
			continue // some users never declare interests
		}
		picked := make([]string, f.Number(1, 5))
		for j := range picked {
			picked[j] = f.RandomString(Vocabulary)
		}
		if _, err := catalog.ReplaceUserInterests(ctx, u.ID, picked); err != nil {
			return stats, fmt.Errorf("failed to seed interests for user %d: %w", u.ID, err)
		}
	}

	likes := matching.NewLikeProcessor(database, nil, nil, logger)
	counter := 0
	for _, liker := range users {
		for j := 0; j < opts.LikesPerUser; j++ {
			target := users[f.Number(0, len(users)-1)]
			if target.ID == liker.ID {
				continue
			}

			out, err := likes.ProcessLike(ctx, liker.ID, target.ID)
			if err != nil {
				return stats, fmt.Errorf("failed to seed like %d -> %d: %w", liker.ID, target.ID, err)
			}
			stats.Likes++
			if out.BecameMutual {
				stats.Mutual++
			}

			// guarantee mutual likes every 3rd pair
			if counter%3 == 0 && !out.BecameMutual {
				back, err := likes.ProcessLike(ctx, target.ID, liker.ID)
				if err != nil {
					return stats, fmt.Errorf("failed to seed like %d -> %d: %w", target.ID, liker.ID, err)
				}
				stats.Likes++
				if back.BecameMutual {
					stats.Mutual++
				}
			}
			counter++
		}
	}

	logger.Info("seeded likes", "likes", stats.Likes, "mutual", stats.Mutual)
	return stats, nil
}

// reset clears every table and restarts id sequences where the dialect allows.
func reset(database *gorm.DB) error {
	for _, table := range []string{"matches", "user_interests", "interests", "users"} {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch database.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"matches", "interests", "users"} {
			database.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "postgres":
		database.Exec("TRUNCATE matches, user_interests, interests, users RESTART IDENTITY CASCADE")
	case "sqlite":
		database.Exec("DELETE FROM sqlite_sequence WHERE name IN ('matches', 'interests', 'users')")
	}
	return nil
}
