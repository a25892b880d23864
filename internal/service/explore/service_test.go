package explore_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/muzz-matching/internal/app"
	"github.com/oggyb/muzz-matching/internal/cache"
	"github.com/oggyb/muzz-matching/internal/config"
	"github.com/oggyb/muzz-matching/internal/db"
	"github.com/oggyb/muzz-matching/internal/logger"
	pb "github.com/oggyb/muzz-matching/internal/rpc/explore"
	"github.com/oggyb/muzz-matching/internal/server"
	"github.com/oggyb/muzz-matching/internal/service/explore"
)

//
// Test helpers
//

// seedMinimalTestData inserts a small deterministic dataset.
//
// Dataset:
//   - Users: user1 (male), user2..user4 (female), user5 (female, inactive)
//   - Interests: user1 {music, chess}, user2 {music}, user3 {chess, music}
//   - user4 has no interests, highest reputation
func seedMinimalTestData(t *testing.T, gdb *gorm.DB) {
	t.Helper()

	users := []db.User{
		{ID: 1, Username: "user1", Email: "u1@test.com", PasswordHash: "x", Gender: db.GenderMale, Active: true},
		{ID: 2, Username: "user2", Email: "u2@test.com", PasswordHash: "x", Gender: db.GenderFemale, Active: true, Reputation: 2},
		{ID: 3, Username: "user3", Email: "u3@test.com", PasswordHash: "x", Gender: db.GenderFemale, Active: true, Reputation: 1},
		{ID: 4, Username: "user4", Email: "u4@test.com", PasswordHash: "x", Gender: db.GenderFemale, Active: true, Reputation: 9},
		{ID: 5, Username: "user5", Email: "u5@test.com", PasswordHash: "x", Gender: db.GenderFemale, Active: false, Reputation: 50},
	}
	require.NoError(t, gdb.Create(&users).Error)

	interests := []db.Interest{{ID: 1, Name: "music"}, {ID: 2, Name: "chess"}}
	require.NoError(t, gdb.Create(&interests).Error)

	links := []db.UserInterest{
		{UserID: 1, InterestID: 1}, {UserID: 1, InterestID: 2},
		{UserID: 2, InterestID: 1},
		{UserID: 3, InterestID: 1}, {UserID: 3, InterestID: 2},
	}
	require.NoError(t, gdb.Create(&links).Error)
}

// setupClient spins up an in-memory SQLite DB, seeds test data, starts a
// miniredis and serves the Explore service over bufconn.
func setupClient(t *testing.T) (pb.ExploreServiceClient, *grpc.ClientConn, *miniredis.Miniredis) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(gdb))
	seedMinimalTestData(t, gdb)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })

	appCtx, err := app.New(cfg, gdb, rc, nil, logger.Discard())
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	srv := server.NewGRPCServer(logger.Discard(), explore.NewRegistrar(appCtx, nil))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return pb.NewExploreServiceClient(conn), conn, mr
}

func candidateIDs(resp *pb.GetSuggestionsResponse) []string {
	out := make([]string, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		out = append(out, c.Id)
	}
	return out
}

//
// Tests
//

func TestGetSuggestions(t *testing.T) {
	client, _, _ := setupClient(t)
	ctx := context.Background()

	resp, err := client.GetSuggestions(ctx, &pb.GetSuggestionsRequest{ViewerUserId: "1", Limit: 10})
	require.NoError(t, err)
	// user3 shares two interests, user2 one, user4 backfills; user5 inactive
	assert.Equal(t, []string{"3", "2", "4"}, candidateIDs(resp))
	assert.Equal(t, int64(2), resp.Candidates[0].SharedInterests)
	assert.Equal(t, "FEMALE", resp.Candidates[0].Gender)

	_, err = client.GetSuggestions(ctx, &pb.GetSuggestionsRequest{ViewerUserId: "abc"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetSuggestions(ctx, &pb.GetSuggestionsRequest{ViewerUserId: "404"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestLikeFlow(t *testing.T) {
	client, _, mr := setupClient(t)
	ctx := context.Background()

	count, err := client.CountLikedYou(ctx, &pb.CountLikedYouRequest{RecipientUserId: "2"})
	require.NoError(t, err)
	assert.Zero(t, count.Count)
	assert.True(t, mr.Exists("likes:count:2"))

	first, err := client.Like(ctx, &pb.LikeRequest{ViewerUserId: "1", TargetUserId: "2"})
	require.NoError(t, err)
	assert.False(t, first.BecameMutual)
	assert.Equal(t, "liked", first.Transition)
	assert.Equal(t, "1", first.Match.LikerUserId)
	assert.False(t, mr.Exists("likes:count:2"))

	repeat, err := client.Like(ctx, &pb.LikeRequest{ViewerUserId: "1", TargetUserId: "2"})
	require.NoError(t, err)
	assert.Equal(t, first.Match.Id, repeat.Match.Id)
	assert.Equal(t, "repeat", repeat.Transition)

	mutual, err := client.Like(ctx, &pb.LikeRequest{ViewerUserId: "2", TargetUserId: "1"})
	require.NoError(t, err)
	assert.True(t, mutual.BecameMutual)
	assert.True(t, mutual.Match.Mutual)

	count, err = client.CountLikedYou(ctx, &pb.CountLikedYouRequest{RecipientUserId: "2"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count.Count)

	// the liked user disappears from suggestions
	resp, err := client.GetSuggestions(ctx, &pb.GetSuggestionsRequest{ViewerUserId: "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, candidateIDs(resp))

	matches, err := client.ListMatches(ctx, &pb.ListMatchesRequest{ViewerUserId: "1", OnlyMutual: true})
	require.NoError(t, err)
	require.Len(t, matches.Matches, 1)
	assert.Equal(t, "2", matches.Matches[0].LikedUserId)
	assert.Empty(t, matches.GetNextPaginationToken())

	_, err = client.Like(ctx, &pb.LikeRequest{ViewerUserId: "1", TargetUserId: "1"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Like(ctx, &pb.LikeRequest{ViewerUserId: "1", TargetUserId: "99"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestViewerHeaderOverridesBody(t *testing.T) {
	client, _, _ := setupClient(t)
	ctx := metadata.AppendToOutgoingContext(context.Background(), explore.ViewerHeader, "2")

	out, err := client.Like(ctx, &pb.LikeRequest{ViewerUserId: "1", TargetUserId: "3"})
	require.NoError(t, err)
	assert.Equal(t, "2", out.Match.LikerUserId)
}

func TestInterestOperations(t *testing.T) {
	client, _, _ := setupClient(t)
	ctx := context.Background()

	popular, err := client.PopularInterests(ctx, &pb.PopularInterestsRequest{})
	require.NoError(t, err)
	require.Len(t, popular.Interests, 2)
	assert.Equal(t, "music", popular.Interests[0].Name)
	assert.Equal(t, int64(3), popular.Interests[0].UserCount)

	replaced, err := client.ReplaceMyInterests(ctx, &pb.ReplaceMyInterestsRequest{
		ViewerUserId: "4",
		Names:        []string{" Rock Climbing", "rock climbing", "Jazz"},
	})
	require.NoError(t, err)
	assert.Len(t, replaced.Interests, 2)

	mine, err := client.GetMyInterests(ctx, &pb.GetMyInterestsRequest{ViewerUserId: "4"})
	require.NoError(t, err)
	require.Len(t, mine.Interests, 2)
	assert.Equal(t, "jazz", mine.Interests[0].Name)
	assert.Equal(t, "rock climbing", mine.Interests[1].Name)

	found, err := client.SearchInterests(ctx, &pb.SearchInterestsRequest{Query: "ROCK"})
	require.NoError(t, err)
	require.Len(t, found.Interests, 1)
	assert.Equal(t, "rock climbing", found.Interests[0].Name)

	_, err = client.ReplaceMyInterests(ctx, &pb.ReplaceMyInterestsRequest{ViewerUserId: "4", Names: []string{" "}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.SearchInterests(ctx, &pb.SearchInterestsRequest{Query: ""})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestListMatches_BadToken(t *testing.T) {
	client, _, _ := setupClient(t)
	bad := "???"
	_, err := client.ListMatches(context.Background(), &pb.ListMatchesRequest{ViewerUserId: "1", PaginationToken: &bad})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHealth(t *testing.T) {
	_, conn, _ := setupClient(t)
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
