// Package explore defines the wire contract of the ExploreService: request
// and response messages, the service descriptor and a client.
//
// User ids travel as decimal strings.
package explore

// User is a suggested candidate.
type User struct {
	Id              string `json:"id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Gender          string `json:"gender"`
	Reputation      int64  `json:"reputation"`
	CreatedUnix     int64  `json:"created_unix"`
	SharedInterests int64  `json:"shared_interests"`
}

// Match is a directed like edge.
type Match struct {
	Id          string `json:"id"`
	LikerUserId string `json:"liker_user_id"`
	LikedUserId string `json:"liked_user_id"`
	Mutual      bool   `json:"mutual"`
	CreatedUnix int64  `json:"created_unix"`
}

// Interest is a vocabulary entry. UserCount is only set by PopularInterests.
type Interest struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	UserCount   int64  `json:"user_count,omitempty"`
	CreatedUnix int64  `json:"created_unix"`
}

type GetSuggestionsRequest struct {
	ViewerUserId string `json:"viewer_user_id"`
	Limit        int32  `json:"limit,omitempty"`
}

func (x *GetSuggestionsRequest) GetViewerUserId() string {
	if x == nil {
		return ""
	}
	return x.ViewerUserId
}

func (x *GetSuggestionsRequest) GetLimit() int32 {
	if x == nil {
		return 0
	}
	return x.Limit
}

type GetSuggestionsResponse struct {
	Candidates []*User `json:"candidates"`
}

type LikeRequest struct {
	ViewerUserId string `json:"viewer_user_id"`
	TargetUserId string `json:"target_user_id"`
}

func (x *LikeRequest) GetViewerUserId() string {
	if x == nil {
		return ""
	}
	return x.ViewerUserId
}

func (x *LikeRequest) GetTargetUserId() string {
	if x == nil {
		return ""
	}
	return x.TargetUserId
}

type LikeResponse struct {
	Match        *Match `json:"match"`
	BecameMutual bool   `json:"became_mutual"`
	// Transition is one of liked, repeat, mutual, already_mutual.
	Transition string `json:"transition"`
}

type ListMatchesRequest struct {
	ViewerUserId    string  `json:"viewer_user_id"`
	PaginationToken *string `json:"pagination_token,omitempty"`
	PageSize        int32   `json:"page_size,omitempty"`
	OnlyMutual      bool    `json:"only_mutual,omitempty"`
}

func (x *ListMatchesRequest) GetViewerUserId() string {
	if x == nil {
		return ""
	}
	return x.ViewerUserId
}

func (x *ListMatchesRequest) GetPaginationToken() string {
	if x == nil || x.PaginationToken == nil {
		return ""
	}
	return *x.PaginationToken
}

type ListMatchesResponse struct {
	Matches             []*Match `json:"matches"`
	NextPaginationToken *string  `json:"next_pagination_token,omitempty"`
}

func (x *ListMatchesResponse) GetNextPaginationToken() string {
	if x == nil || x.NextPaginationToken == nil {
		return ""
	}
	return *x.NextPaginationToken
}

type PopularInterestsRequest struct {
	Limit int32 `json:"limit,omitempty"`
}

type SearchInterestsRequest struct {
	Query string `json:"query"`
	Limit int32  `json:"limit,omitempty"`
}

type ReplaceMyInterestsRequest struct {
	ViewerUserId string   `json:"viewer_user_id"`
	Names        []string `json:"names"`
}

func (x *ReplaceMyInterestsRequest) GetViewerUserId() string {
	if x == nil {
		return ""
	}
	return x.ViewerUserId
}

type GetMyInterestsRequest struct {
	ViewerUserId string `json:"viewer_user_id"`
}

func (x *GetMyInterestsRequest) GetViewerUserId() string {
	if x == nil {
		return ""
	}
	return x.ViewerUserId
}

// InterestsResponse is shared by every interest operation.
type InterestsResponse struct {
	Interests []*Interest `json:"interests"`
}

type CountLikedYouRequest struct {
	RecipientUserId string `json:"recipient_user_id"`
}

func (x *CountLikedYouRequest) GetRecipientUserId() string {
	if x == nil {
		return ""
	}
	return x.RecipientUserId
}

type CountLikedYouResponse struct {
	Count uint64 `json:"count"`
}
