// Package gatewayapi is the wire contract between the timeline client and the
// gateway server: a gRPC service carried with a JSON codec.
package gatewayapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophtimeline.gateway.Gateway"

const (
	MethodPing                = "/" + ServiceName + "/Ping"
	MethodRegisterUser        = "/" + ServiceName + "/RegisterUser"
	MethodGetSalt             = "/" + ServiceName + "/GetSalt"
	MethodLogin               = "/" + ServiceName + "/Login"
	MethodRefreshToken        = "/" + ServiceName + "/RefreshToken"
	MethodFetchTimeline       = "/" + ServiceName + "/FetchTimeline"
	MethodReplaceTimeline     = "/" + ServiceName + "/ReplaceTimeline"
	MethodPrepareMediaUpload  = "/" + ServiceName + "/PrepareMediaUpload"
	MethodCompleteMediaUpload = "/" + ServiceName + "/CompleteMediaUpload"
	MethodGetMedia            = "/" + ServiceName + "/GetMedia"
	MethodSearchPosts         = "/" + ServiceName + "/SearchPosts"
	MethodSearchCompetitions  = "/" + ServiceName + "/SearchCompetitions"
	MethodSearchPeople        = "/" + ServiceName + "/SearchPeople"
)

// GatewayServer is implemented by the gateway.
type GatewayServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	FetchTimeline(context.Context, *FetchTimelineRequest) (*FetchTimelineResponse, error)
	ReplaceTimeline(context.Context, *ReplaceTimelineRequest) (*ReplaceTimelineResponse, error)
	PrepareMediaUpload(context.Context, *PrepareMediaUploadRequest) (*PrepareMediaUploadResponse, error)
	CompleteMediaUpload(context.Context, *CompleteMediaUploadRequest) (*CompleteMediaUploadResponse, error)
	GetMedia(context.Context, *GetMediaRequest) (*GetMediaResponse, error)
	SearchPosts(context.Context, *SearchPostsRequest) (*SearchPostsResponse, error)
	SearchCompetitions(context.Context, *SearchCompetitionsRequest) (*SearchCompetitionsResponse, error)
	SearchPeople(context.Context, *SearchPeopleRequest) (*SearchPeopleResponse, error)
}

// UnimplementedGatewayServer can be embedded to satisfy GatewayServer
// partially; missing methods answer codes.Unimplemented.
type UnimplementedGatewayServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedGatewayServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedGatewayServer) RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error) {
	return nil, unimplemented("RegisterUser")
}
func (UnimplementedGatewayServer) GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error) {
	return nil, unimplemented("GetSalt")
}
func (UnimplementedGatewayServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedGatewayServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedGatewayServer) FetchTimeline(context.Context, *FetchTimelineRequest) (*FetchTimelineResponse, error) {
	return nil, unimplemented("FetchTimeline")
}
func (UnimplementedGatewayServer) ReplaceTimeline(context.Context, *ReplaceTimelineRequest) (*ReplaceTimelineResponse, error) {
	return nil, unimplemented("ReplaceTimeline")
}
func (UnimplementedGatewayServer) PrepareMediaUpload(context.Context, *PrepareMediaUploadRequest) (*PrepareMediaUploadResponse, error) {
	return nil, unimplemented("PrepareMediaUpload")
}
func (UnimplementedGatewayServer) CompleteMediaUpload(context.Context, *CompleteMediaUploadRequest) (*CompleteMediaUploadResponse, error) {
	return nil, unimplemented("CompleteMediaUpload")
}
func (UnimplementedGatewayServer) GetMedia(context.Context, *GetMediaRequest) (*GetMediaResponse, error) {
	return nil, unimplemented("GetMedia")
}
func (UnimplementedGatewayServer) SearchPosts(context.Context, *SearchPostsRequest) (*SearchPostsResponse, error) {
	return nil, unimplemented("SearchPosts")
}
func (UnimplementedGatewayServer) SearchCompetitions(context.Context, *SearchCompetitionsRequest) (*SearchCompetitionsResponse, error) {
	return nil, unimplemented("SearchCompetitions")
}
func (UnimplementedGatewayServer) SearchPeople(context.Context, *SearchPeopleRequest) (*SearchPeopleResponse, error) {
	return nil, unimplemented("SearchPeople")
}

func unary[Req, Resp any](name string, call func(GatewayServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(GatewayServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(GatewayServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the Gateway service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GatewayServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", GatewayServer.Ping),
		unary("RegisterUser", GatewayServer.RegisterUser),
		unary("GetSalt", GatewayServer.GetSalt),
		unary("Login", GatewayServer.Login),
		unary("RefreshToken", GatewayServer.RefreshToken),
		unary("FetchTimeline", GatewayServer.FetchTimeline),
		unary("ReplaceTimeline", GatewayServer.ReplaceTimeline),
		unary("PrepareMediaUpload", GatewayServer.PrepareMediaUpload),
		unary("CompleteMediaUpload", GatewayServer.CompleteMediaUpload),
		unary("GetMedia", GatewayServer.GetMedia),
		unary("SearchPosts", GatewayServer.SearchPosts),
		unary("SearchCompetitions", GatewayServer.SearchCompetitions),
		unary("SearchPeople", GatewayServer.SearchPeople),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gatewayapi/messages.go",
}

func RegisterGatewayServer(s grpc.ServiceRegistrar, srv GatewayServer) {
	s.RegisterService(&ServiceDesc, srv)
}
