package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophtimeline/internal/common"
	"github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"
	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC codes. Anything unrecognised is
// logged and reported as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, err.Error())
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) Ping(ctx context.Context, req *gatewayapi.PingRequest) (*gatewayapi.PingResponse, error) {
	return &gatewayapi.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *gatewayapi.RegisterUserRequest) (*gatewayapi.RegisterUserResponse, error) {
	s.logger.Info(ctx, "Registration request")

	u, err := s.users.Register(ctx, req.Username, req.Salt, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, "register", err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username, "id", u.ID)
	return &gatewayapi.RegisterUserResponse{}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *gatewayapi.GetSaltRequest) (*gatewayapi.GetSaltResponse, error) {
	salt, err := s.users.GetSalt(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, "get salt", err)
	}
	return &gatewayapi.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *gatewayapi.LoginRequest) (*gatewayapi.LoginResponse, error) {
	tokens, err := s.users.Login(ctx, req.Username, req.VerifierCandidate)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	return &gatewayapi.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *gatewayapi.RefreshTokenRequest) (*gatewayapi.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh token", err)
	}
	return &gatewayapi.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) FetchTimeline(ctx context.Context, req *gatewayapi.FetchTimelineRequest) (*gatewayapi.FetchTimelineResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tl, err := s.timelines.Fetch(ctx, userID, req.Subject)
	if err != nil {
		return nil, s.toStatus(ctx, "fetch timeline", err)
	}
	return &gatewayapi.FetchTimelineResponse{Items: tl.Items, Revision: tl.Revision}, nil
}

func (s *GRPCServer) ReplaceTimeline(ctx context.Context, req *gatewayapi.ReplaceTimelineRequest) (*gatewayapi.ReplaceTimelineResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tl, err := s.timelines.Replace(ctx, userID, req.Items, req.Revision)
	if err != nil {
		return nil, s.toStatus(ctx, "replace timeline", err)
	}

	s.logger.Info(ctx, "Timeline replaced", "user", userID, "items", len(tl.Items), "revision", tl.Revision)
	return &gatewayapi.ReplaceTimelineResponse{Items: tl.Items, Revision: tl.Revision}, nil
}

func (s *GRPCServer) PrepareMediaUpload(ctx context.Context, req *gatewayapi.PrepareMediaUploadRequest) (*gatewayapi.PrepareMediaUploadResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	targets, err := s.media.Prepare(ctx, userID, req.Files)
	if err != nil {
		return nil, s.toStatus(ctx, "prepare upload", err)
	}
	return &gatewayapi.PrepareMediaUploadResponse{Targets: targets}, nil
}

func (s *GRPCServer) CompleteMediaUpload(ctx context.Context, req *gatewayapi.CompleteMediaUploadRequest) (*gatewayapi.CompleteMediaUploadResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	results, err := s.media.Complete(ctx, userID, req.MediaIDs)
	if err != nil {
		return nil, s.toStatus(ctx, "complete upload", err)
	}
	return &gatewayapi.CompleteMediaUploadResponse{Results: results}, nil
}

func (s *GRPCServer) GetMedia(ctx context.Context, req *gatewayapi.GetMediaRequest) (*gatewayapi.GetMediaResponse, error) {
	m, err := s.media.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, "get media", err)
	}
	return &gatewayapi.GetMediaResponse{Media: *m}, nil
}

func (s *GRPCServer) SearchPosts(ctx context.Context, req *gatewayapi.SearchPostsRequest) (*gatewayapi.SearchPostsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.catalog.Posts(ctx, userID, req.AuthorID)
	if err != nil {
		return nil, s.toStatus(ctx, "search posts", err)
	}
	return &gatewayapi.SearchPostsResponse{Posts: mapSlice(posts, func(p models.Post) gatewayapi.PostSummary {
		return gatewayapi.PostSummary{ID: p.ID, Title: p.Title}
	})}, nil
}

func (s *GRPCServer) SearchCompetitions(ctx context.Context, req *gatewayapi.SearchCompetitionsRequest) (*gatewayapi.SearchCompetitionsResponse, error) {
	cs, err := s.catalog.Competitions(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "search competitions", err)
	}
	return &gatewayapi.SearchCompetitionsResponse{Competitions: mapSlice(cs, func(c models.Competition) gatewayapi.CompetitionSummary {
		return gatewayapi.CompetitionSummary{ID: c.ID, Name: c.Name}
	})}, nil
}

func (s *GRPCServer) SearchPeople(ctx context.Context, req *gatewayapi.SearchPeopleRequest) (*gatewayapi.SearchPeopleResponse, error) {
	people, err := s.catalog.People(ctx, req.Query)
	if err != nil {
		return nil, s.toStatus(ctx, "search people", err)
	}
	return &gatewayapi.SearchPeopleResponse{People: mapSlice(people, func(p models.Person) gatewayapi.PersonSummary {
		return gatewayapi.PersonSummary{ID: p.ID, DisplayName: p.DisplayName}
	})}, nil
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
