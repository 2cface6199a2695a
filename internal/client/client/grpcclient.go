package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/common"
	"github.com/dmitrijs2005/gophtimeline/internal/filex"
	"github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"
	"github.com/dmitrijs2005/gophtimeline/internal/netx"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const uploadParallelism = 4

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      gatewayapi.GatewayClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.mu.Unlock()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil || method == gatewayapi.MethodRefreshToken {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &gatewayapi.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	// tokens refreshed, retry once with the new access token
	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = gatewayapi.NewGatewayClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, userName string, salt []byte, key []byte) error {
	req := &gatewayapi.RegisterUserRequest{Username: userName, Salt: salt, Verifier: key}
	if _, err := s.client.RegisterUser(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) GetSalt(ctx context.Context, userName string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	resp, err := s.client.GetSalt(ctx, &gatewayapi.GetSaltRequest{Username: userName})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Salt, nil
}

func (s *GRPCClient) Login(ctx context.Context, userName string, key []byte) error {
	req := &gatewayapi.LoginRequest{Username: userName, VerifierCandidate: key}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Logout forgets the session tokens.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) Authenticated() bool {
	access, _ := s.tokens()
	return access != ""
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &gatewayapi.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) FetchTimeline(ctx context.Context, subject string) (*models.TimelinePage, error) {
	resp, err := s.client.FetchTimeline(ctx, &gatewayapi.FetchTimelineRequest{Subject: subject})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.TimelinePage{Items: resp.Items, Revision: resp.Revision}, nil
}

func (s *GRPCClient) ReplaceTimeline(ctx context.Context, items []models.TimelineEntry, revision int64) (*models.TimelinePage, error) {
	if items == nil {
		items = []models.TimelineEntry{}
	}
	resp, err := s.client.ReplaceTimeline(ctx, &gatewayapi.ReplaceTimelineRequest{Items: items, Revision: revision})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.TimelinePage{Items: resp.Items, Revision: resp.Revision}, nil
}

// UploadMediaBatch reads the files, PUTs them to presigned URLs and returns
// the media ids in file order.
func (s *GRPCClient) UploadMediaBatch(ctx context.Context, files []models.UploadFile) ([]string, error) {
	bodies := make([][]byte, len(files))
	specs := make([]gatewayapi.UploadSpec, len(files))
	for i, f := range files {
		b, err := filex.ReadAsset(f.URI)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		bodies[i] = b
		specs[i] = gatewayapi.UploadSpec{Name: f.Name, MimeType: f.MimeType, Size: int64(len(b))}
	}

	prep, err := s.client.PrepareMediaUpload(ctx, &gatewayapi.PrepareMediaUploadRequest{Files: specs})
	if err != nil {
		return nil, s.mapError(err)
	}
	if len(prep.Targets) != len(files) {
		return nil, fmt.Errorf("%w: %d upload targets for %d files", ErrBadResponse, len(prep.Targets), len(files))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadParallelism)
	ids := make([]string, len(prep.Targets))
	for i, t := range prep.Targets {
		ids[i] = t.MediaID
		g.Go(func() error {
			if err := netx.PutPresigned(gctx, t.URL, files[i].MimeType, bodies[i]); err != nil {
				return fmt.Errorf("upload %s: %w", files[i].Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	done, err := s.client.CompleteMediaUpload(ctx, &gatewayapi.CompleteMediaUploadRequest{MediaIDs: ids})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]string, 0, len(done.Results))
	for _, r := range done.Results {
		out = append(out, r.MediaID)
	}
	return out, nil
}

func (s *GRPCClient) FetchMediaByID(ctx context.Context, id string) (*models.MediaDescriptor, error) {
	resp, err := s.client.GetMedia(ctx, &gatewayapi.GetMediaRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	d := models.MediaFromWire(resp.Media)
	return &d, nil
}

func (s *GRPCClient) SearchCandidatePosts(ctx context.Context, authorID string) ([]models.PostSummary, error) {
	resp, err := s.client.SearchPosts(ctx, &gatewayapi.SearchPostsRequest{AuthorID: authorID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Posts, nil
}

func (s *GRPCClient) SearchCandidateCompetitions(ctx context.Context) ([]models.CompetitionSummary, error) {
	resp, err := s.client.SearchCompetitions(ctx, &gatewayapi.SearchCompetitionsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Competitions, nil
}

func (s *GRPCClient) SearchPeople(ctx context.Context, query string) ([]models.PersonSummary, error) {
	resp, err := s.client.SearchPeople(ctx, &gatewayapi.SearchPeopleRequest{Query: query})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.People, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Aborted, codes.FailedPrecondition:
		return ErrConflict
	case codes.NotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
