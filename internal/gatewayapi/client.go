package gatewayapi

import (
	"context"

	"google.golang.org/grpc"
)

// GatewayClient is the client stub for the Gateway service.
type GatewayClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error)
	GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	FetchTimeline(ctx context.Context, in *FetchTimelineRequest, opts ...grpc.CallOption) (*FetchTimelineResponse, error)
	ReplaceTimeline(ctx context.Context, in *ReplaceTimelineRequest, opts ...grpc.CallOption) (*ReplaceTimelineResponse, error)
	PrepareMediaUpload(ctx context.Context, in *PrepareMediaUploadRequest, opts ...grpc.CallOption) (*PrepareMediaUploadResponse, error)
	CompleteMediaUpload(ctx context.Context, in *CompleteMediaUploadRequest, opts ...grpc.CallOption) (*CompleteMediaUploadResponse, error)
	GetMedia(ctx context.Context, in *GetMediaRequest, opts ...grpc.CallOption) (*GetMediaResponse, error)
	SearchPosts(ctx context.Context, in *SearchPostsRequest, opts ...grpc.CallOption) (*SearchPostsResponse, error)
	SearchCompetitions(ctx context.Context, in *SearchCompetitionsRequest, opts ...grpc.CallOption) (*SearchCompetitionsResponse, error)
	SearchPeople(ctx context.Context, in *SearchPeopleRequest, opts ...grpc.CallOption) (*SearchPeopleResponse, error)
}

type gatewayClient struct {
	cc grpc.ClientConnInterface
}

func NewGatewayClient(cc grpc.ClientConnInterface) GatewayClient {
	return &gatewayClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gatewayClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *gatewayClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error) {
	return invoke[RegisterUserResponse](ctx, c.cc, MethodRegisterUser, in, opts)
}

func (c *gatewayClient) GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error) {
	return invoke[GetSaltResponse](ctx, c.cc, MethodGetSalt, in, opts)
}

func (c *gatewayClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *gatewayClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *gatewayClient) FetchTimeline(ctx context.Context, in *FetchTimelineRequest, opts ...grpc.CallOption) (*FetchTimelineResponse, error) {
	return invoke[FetchTimelineResponse](ctx, c.cc, MethodFetchTimeline, in, opts)
}

func (c *gatewayClient) ReplaceTimeline(ctx context.Context, in *ReplaceTimelineRequest, opts ...grpc.CallOption) (*ReplaceTimelineResponse, error) {
	return invoke[ReplaceTimelineResponse](ctx, c.cc, MethodReplaceTimeline, in, opts)
}

func (c *gatewayClient) PrepareMediaUpload(ctx context.Context, in *PrepareMediaUploadRequest, opts ...grpc.CallOption) (*PrepareMediaUploadResponse, error) {
	return invoke[PrepareMediaUploadResponse](ctx, c.cc, MethodPrepareMediaUpload, in, opts)
}

func (c *gatewayClient) CompleteMediaUpload(ctx context.Context, in *CompleteMediaUploadRequest, opts ...grpc.CallOption) (*CompleteMediaUploadResponse, error) {
	return invoke[CompleteMediaUploadResponse](ctx, c.cc, MethodCompleteMediaUpload, in, opts)
}

func (c *gatewayClient) GetMedia(ctx context.Context, in *GetMediaRequest, opts ...grpc.CallOption) (*GetMediaResponse, error) {
	return invoke[GetMediaResponse](ctx, c.cc, MethodGetMedia, in, opts)
}

func (c *gatewayClient) SearchPosts(ctx context.Context, in *SearchPostsRequest, opts ...grpc.CallOption) (*SearchPostsResponse, error) {
	return invoke[SearchPostsResponse](ctx, c.cc, MethodSearchPosts, in, opts)
}

func (c *gatewayClient) SearchCompetitions(ctx context.Context, in *SearchCompetitionsRequest, opts ...grpc.CallOption) (*SearchCompetitionsResponse, error) {
	return invoke[SearchCompetitionsResponse](ctx, c.cc, MethodSearchCompetitions, in, opts)
}

func (c *gatewayClient) SearchPeople(ctx context.Context, in *SearchPeopleRequest, opts ...grpc.CallOption) (*SearchPeopleResponse, error) {
	return invoke[SearchPeopleResponse](ctx, c.cc, MethodSearchPeople, in, opts)
}
