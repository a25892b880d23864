package explore

import (
	"context"
	"strconv"

	"google.golang.org/grpc/metadata"

	"github.com/oggyb/muzz-matching/internal/app"
	"github.com/oggyb/muzz-matching/internal/db"
	svcErr "github.com/oggyb/muzz-matching/internal/errors"
	"github.com/oggyb/muzz-matching/internal/repository"
	pb "github.com/oggyb/muzz-matching/internal/rpc/explore"
)

// ViewerHeader is set by the authenticating gateway in front of this
// service. When present it overrides any viewer id in the request body.
const ViewerHeader = "x-user-id"

// ViewerResolver identifies the caller. claimed is the id carried in the
// request body.
type ViewerResolver interface {
	ResolveViewer(ctx context.Context, claimed string) (uint64, error)
}

// MetadataViewerResolver trusts the gateway header first, then the body.
type MetadataViewerResolver struct{}

func (MetadataViewerResolver) ResolveViewer(ctx context.Context, claimed string) (uint64, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(ViewerHeader); len(vals) > 0 && vals[0] != "" {
			claimed = vals[0]
		}
	}
	id, err := strconv.ParseUint(claimed, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument("viewer_user_id must be a valid uint64")
	}
	return id, nil
}

// Service implements the Explore gRPC API.
// It translates wire messages to the matching and interest services and
// maps their typed errors to gRPC status codes.
type Service struct {
	appCtx *app.AppContext
	viewer ViewerResolver

	pb.UnimplementedExploreServiceServer
}

// NewExploreService creates a new Explore service with dependencies from AppContext.
func NewExploreService(appCtx *app.AppContext, viewer ViewerResolver) *Service {
	if viewer == nil {
		viewer = MetadataViewerResolver{}
	}
	return &Service{appCtx: appCtx, viewer: viewer}
}

// GetSuggestions returns ranked candidates for the viewer.
//
// Example:
//
//	svc.GetSuggestions(ctx, &pb.GetSuggestionsRequest{ViewerUserId: "42", Limit: 10})
func (s *Service) GetSuggestions(ctx context.Context, req *pb.GetSuggestionsRequest) (*pb.GetSuggestionsResponse, error) {
	s.appCtx.Logger.Debug("GetSuggestions called", "viewer", req.GetViewerUserId(), "limit", req.GetLimit())

	viewerID, err := s.viewer.ResolveViewer(ctx, req.GetViewerUserId())
	if err != nil {
		return nil, err
	}

	suggestions, err := s.appCtx.Engine.Suggest(ctx, viewerID, int(req.GetLimit()))
	if err != nil {
		s.appCtx.Logger.Error("Suggest failed", "viewer", viewerID, "err", err)
		return nil, svcErr.Map(err)
	}

	resp := &pb.GetSuggestionsResponse{Candidates: make([]*pb.User, 0, len(suggestions))}
	for _, sg := range suggestions {
		u := toUser(sg.User)
		u.SharedInterests = sg.SharedInterests
		resp.Candidates = append(resp.Candidates, u)
	}
	return resp, nil
}

// Like records that the viewer likes the target and reports whether it
// produced a mutual match.
func (s *Service) Like(ctx context.Context, req *pb.LikeRequest) (*pb.LikeResponse, error) {
	s.appCtx.Logger.Debug("Like called", "viewer", req.GetViewerUserId(), "target", req.GetTargetUserId())

	viewerID, err := s.viewer.ResolveViewer(ctx, req.GetViewerUserId())
	if err != nil {
		return nil, err
	}
	targetID, err := strconv.ParseUint(req.GetTargetUserId(), 10, 64)
	if err != nil {
		return nil, svcErr.InvalidArgument("target_user_id must be a valid uint64")
	}

	out, err := s.appCtx.Likes.ProcessLike(ctx, viewerID, targetID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.LikeResponse{
		Match:        toMatch(out.Edge),
		BecameMutual: out.BecameMutual,
		Transition:   string(out.Transition),
	}, nil
}

// ListMatches returns the edges the viewer created, newest first.
// Supports cursor-based pagination with PaginationToken.
func (s *Service) ListMatches(ctx context.Context, req *pb.ListMatchesRequest) (*pb.ListMatchesResponse, error) {
	s.appCtx.Logger.Debug("ListMatches called", "viewer", req.GetViewerUserId(), "token", req.GetPaginationToken())

	viewerID, err := s.viewer.ResolveViewer(ctx, req.GetViewerUserId())
	if err != nil {
		return nil, err
	}

	matches, nextToken, err := s.appCtx.Ledger.ListMatches(ctx, viewerID, req.PaginationToken, int(req.PageSize), req.OnlyMutual)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &pb.ListMatchesResponse{Matches: make([]*pb.Match, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, toMatch(m))
	}
	if nextToken != nil {
		resp.NextPaginationToken = nextToken
	}
	return resp, nil
}

func (s *Service) PopularInterests(ctx context.Context, req *pb.PopularInterestsRequest) (*pb.InterestsResponse, error) {
	ranking, err := s.appCtx.Interests.Popular(ctx, int(req.Limit))
	if err != nil {
		return nil, svcErr.Map(err)
	}
	resp := &pb.InterestsResponse{Interests: make([]*pb.Interest, 0, len(ranking))}
	for _, r := range ranking {
		resp.Interests = append(resp.Interests, toUsage(r))
	}
	return resp, nil
}

func (s *Service) SearchInterests(ctx context.Context, req *pb.SearchInterestsRequest) (*pb.InterestsResponse, error) {
	found, err := s.appCtx.Interests.Search(ctx, req.Query, int(req.Limit))
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toInterests(found), nil
}

// ReplaceMyInterests supersedes the viewer's interests with Names.
func (s *Service) ReplaceMyInterests(ctx context.Context, req *pb.ReplaceMyInterestsRequest) (*pb.InterestsResponse, error) {
	viewerID, err := s.viewer.ResolveViewer(ctx, req.GetViewerUserId())
	if err != nil {
		return nil, err
	}
	updated, err := s.appCtx.Interests.ReplaceUserInterests(ctx, viewerID, req.Names)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toInterests(updated), nil
}

func (s *Service) GetMyInterests(ctx context.Context, req *pb.GetMyInterestsRequest) (*pb.InterestsResponse, error) {
	viewerID, err := s.viewer.ResolveViewer(ctx, req.GetViewerUserId())
	if err != nil {
		return nil, err
	}
	mine, err := s.appCtx.Interests.UserInterests(ctx, viewerID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toInterests(mine), nil
}

// CountLikedYou returns how many users liked the recipient.
// Cache-first, see matching.Ledger.CountLikedYou.
//
// Example:
//
//	svc.CountLikedYou(ctx, &pb.CountLikedYouRequest{RecipientUserId: "42"})
func (s *Service) CountLikedYou(ctx context.Context, req *pb.CountLikedYouRequest) (*pb.CountLikedYouResponse, error) {
	s.appCtx.Logger.Debug("CountLikedYou called", "recipient", req.GetRecipientUserId())

	recipientID, err := s.viewer.ResolveViewer(ctx, req.GetRecipientUserId())
	if err != nil {
		return nil, err
	}

	count, err := s.appCtx.Ledger.CountLikedYou(ctx, recipientID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.CountLikedYouResponse{Count: uint64(count)}, nil
}

func toUser(u db.User) *pb.User {
	return &pb.User{
		Id:          strconv.FormatUint(u.ID, 10),
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Gender:      string(u.Gender),
		Reputation:  u.Reputation,
		CreatedUnix: u.CreatedAt.Unix(),
	}
}

func toMatch(m db.Match) *pb.Match {
	return &pb.Match{
		Id:          strconv.FormatUint(m.ID, 10),
		LikerUserId: strconv.FormatUint(m.LikerID, 10),
		LikedUserId: strconv.FormatUint(m.LikedID, 10),
		Mutual:      m.Mutual,
		CreatedUnix: m.CreatedAt.Unix(),
	}
}

func toInterests(in []db.Interest) *pb.InterestsResponse {
	resp := &pb.InterestsResponse{Interests: make([]*pb.Interest, 0, len(in))}
	for _, i := range in {
		resp.Interests = append(resp.Interests, &pb.Interest{
			Id:          strconv.FormatUint(i.ID, 10),
			Name:        i.Name,
			CreatedUnix: i.CreatedAt.Unix(),
		})
	}
	return resp
}

func toUsage(u repository.InterestUsage) *pb.Interest {
	return &pb.Interest{
		Id:          strconv.FormatUint(u.ID, 10),
		Name:        u.Name,
		UserCount:   u.UserCount,
		CreatedUnix: u.CreatedAt.Unix(),
	}
}
