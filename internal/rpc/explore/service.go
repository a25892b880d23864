package explore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "explore.ExploreService"

const (
	MethodGetSuggestions     = "GetSuggestions"
	MethodLike               = "Like"
	MethodListMatches        = "ListMatches"
	MethodPopularInterests   = "PopularInterests"
	MethodSearchInterests    = "SearchInterests"
	MethodReplaceMyInterests = "ReplaceMyInterests"
	MethodGetMyInterests     = "GetMyInterests"
	MethodCountLikedYou      = "CountLikedYou"
)

// FullMethod returns "/explore.ExploreService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ExploreServiceServer is the server API for ExploreService.
type ExploreServiceServer interface {
	GetSuggestions(context.Context, *GetSuggestionsRequest) (*GetSuggestionsResponse, error)
	Like(context.Context, *LikeRequest) (*LikeResponse, error)
	ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error)
	PopularInterests(context.Context, *PopularInterestsRequest) (*InterestsResponse, error)
	SearchInterests(context.Context, *SearchInterestsRequest) (*InterestsResponse, error)
	ReplaceMyInterests(context.Context, *ReplaceMyInterestsRequest) (*InterestsResponse, error)
	GetMyInterests(context.Context, *GetMyInterestsRequest) (*InterestsResponse, error)
	CountLikedYou(context.Context, *CountLikedYouRequest) (*CountLikedYouResponse, error)
}

// UnimplementedExploreServiceServer can be embedded to keep a server
// compiling as methods are added.
type UnimplementedExploreServiceServer struct{}

func (UnimplementedExploreServiceServer) GetSuggestions(context.Context, *GetSuggestionsRequest) (*GetSuggestionsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSuggestions not implemented")
}
func (UnimplementedExploreServiceServer) Like(context.Context, *LikeRequest) (*LikeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Like not implemented")
}
func (UnimplementedExploreServiceServer) ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMatches not implemented")
}
func (UnimplementedExploreServiceServer) PopularInterests(context.Context, *PopularInterestsRequest) (*InterestsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PopularInterests not implemented")
}
func (UnimplementedExploreServiceServer) SearchInterests(context.Context, *SearchInterestsRequest) (*InterestsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SearchInterests not implemented")
}
func (UnimplementedExploreServiceServer) ReplaceMyInterests(context.Context, *ReplaceMyInterestsRequest) (*InterestsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReplaceMyInterests not implemented")
}
func (UnimplementedExploreServiceServer) GetMyInterests(context.Context, *GetMyInterestsRequest) (*InterestsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMyInterests not implemented")
}
func (UnimplementedExploreServiceServer) CountLikedYou(context.Context, *CountLikedYouRequest) (*CountLikedYouResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CountLikedYou not implemented")
}

// ServiceDesc is the grpc.ServiceDesc for ExploreService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExploreServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetSuggestions, ExploreServiceServer.GetSuggestions),
		unary(MethodLike, ExploreServiceServer.Like),
		unary(MethodListMatches, ExploreServiceServer.ListMatches),
		unary(MethodPopularInterests, ExploreServiceServer.PopularInterests),
		unary(MethodSearchInterests, ExploreServiceServer.SearchInterests),
		unary(MethodReplaceMyInterests, ExploreServiceServer.ReplaceMyInterests),
		unary(MethodGetMyInterests, ExploreServiceServer.GetMyInterests),
		unary(MethodCountLikedYou, ExploreServiceServer.CountLikedYou),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "explore/explore.json",
}

// RegisterExploreServiceServer attaches srv to s.
func RegisterExploreServiceServer(s grpc.ServiceRegistrar, srv ExploreServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req, Resp any](
	method string,
	call func(ExploreServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ExploreServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ExploreServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
