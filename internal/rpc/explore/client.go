package explore

import (
	"context"

	"google.golang.org/grpc"
)

// ExploreServiceClient is the client API for ExploreService.
type ExploreServiceClient interface {
	GetSuggestions(ctx context.Context, in *GetSuggestionsRequest, opts ...grpc.CallOption) (*GetSuggestionsResponse, error)
	Like(ctx context.Context, in *LikeRequest, opts ...grpc.CallOption) (*LikeResponse, error)
	ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error)
	PopularInterests(ctx context.Context, in *PopularInterestsRequest, opts ...grpc.CallOption) (*InterestsResponse, error)
	SearchInterests(ctx context.Context, in *SearchInterestsRequest, opts ...grpc.CallOption) (*InterestsResponse, error)
	ReplaceMyInterests(ctx context.Context, in *ReplaceMyInterestsRequest, opts ...grpc.CallOption) (*InterestsResponse, error)
	GetMyInterests(ctx context.Context, in *GetMyInterestsRequest, opts ...grpc.CallOption) (*InterestsResponse, error)
	CountLikedYou(ctx context.Context, in *CountLikedYouRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error)
}

type exploreServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewExploreServiceClient returns a client that always speaks the JSON codec.
func NewExploreServiceClient(cc grpc.ClientConnInterface) ExploreServiceClient {
	return &exploreServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *exploreServiceClient) GetSuggestions(ctx context.Context, in *GetSuggestionsRequest, opts ...grpc.CallOption) (*GetSuggestionsResponse, error) {
	return invoke[GetSuggestionsResponse](ctx, c.cc, MethodGetSuggestions, in, opts)
}

func (c *exploreServiceClient) Like(ctx context.Context, in *LikeRequest, opts ...grpc.CallOption) (*LikeResponse, error) {
	return invoke[LikeResponse](ctx, c.cc, MethodLike, in, opts)
}

func (c *exploreServiceClient) ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error) {
	return invoke[ListMatchesResponse](ctx, c.cc, MethodListMatches, in, opts)
}

func (c *exploreServiceClient) PopularInterests(ctx context.Context, in *PopularInterestsRequest, opts ...grpc.CallOption) (*InterestsResponse, error) {
	return invoke[InterestsResponse](ctx, c.cc, MethodPopularInterests, in, opts)
}

func (c *exploreServiceClient) SearchInterests(ctx context.Context, in *SearchInterestsRequest, opts ...grpc.CallOption) (*InterestsResponse, error) {
	return invoke[InterestsResponse](ctx, c.cc, MethodSearchInterests, in, opts)
}

func (c *exploreServiceClient) ReplaceMyInterests(ctx context.Context, in *ReplaceMyInterestsRequest, opts ...grpc.CallOption) (*InterestsResponse, error) {
	return invoke[InterestsResponse](ctx, c.cc, MethodReplaceMyInterests, in, opts)
}

func (c *exploreServiceClient) GetMyInterests(ctx context.Context, in *GetMyInterestsRequest, opts ...grpc.CallOption) (*InterestsResponse, error) {
	return invoke[InterestsResponse](ctx, c.cc, MethodGetMyInterests, in, opts)
}

func (c *exploreServiceClient) CountLikedYou(ctx context.Context, in *CountLikedYouRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error) {
	return invoke[CountLikedYouResponse](ctx, c.cc, MethodCountLikedYou, in, opts)
}
