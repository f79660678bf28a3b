package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/dmitrijs2005/clipshare/internal/relay"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      relay.RelayClient

	mu          sync.Mutex
	accessToken string
	// join is replayed when the relay reports an expired token.
	join *relay.JoinSessionRequest
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) credentials() (string, *relay.JoinSessionRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.join
}

// accessTokenInterceptor attaches the session token and, once per call,
// rejoins the session when the relay says the token expired.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if method == relay.Relay_Ping_FullMethodName || method == relay.Relay_JoinSession_FullMethodName {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	token, join := s.credentials()
	if token == "" {
		return ErrNoSession
	}

	err := invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if join == nil {
		return err
	}

	rejoin := *join
	rejoin.Create = false
	resp, err := s.client.JoinSession(ctx, &rejoin)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.mu.Unlock()

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewClipshareClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
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
	s.client = relay.NewRelayClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &relay.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "ok" {
		return ErrUnavailable
	}

	return nil
}

// JoinSession joins (or with create, opens) a session and keeps its token
// for subsequent calls.
func (s *GRPCClient) JoinSession(ctx context.Context, code, deviceID string, nameEncrypted *string, create bool) (*relay.JoinSessionResponse, error) {
	req := &relay.JoinSessionRequest{
		SessionCode:         code,
		DeviceID:            deviceID,
		DeviceNameEncrypted: nameEncrypted,
		Create:              create,
	}

	resp, err := s.client.JoinSession(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.join = req
	s.mu.Unlock()

	return resp, nil
}

// Leave drops the session token.
func (s *GRPCClient) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.join = nil
}

func (s *GRPCClient) PutItem(ctx context.Context, row models.ItemRow) (*relay.PutItemResponse, error) {
	resp, err := s.client.PutItem(ctx, &relay.PutItemRequest{Item: row})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListItems(ctx context.Context, after models.ItemCursor, limit int) ([]models.ItemRow, error) {
	req := &relay.ListItemsRequest{Since: after.CreatedAt, AfterID: after.ID, Limit: limit}
	resp, err := s.client.ListItems(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Items, nil
}

func (s *GRPCClient) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.client.DeleteItem(ctx, &relay.DeleteItemRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ListDevices(ctx context.Context) ([]models.DeviceRow, error) {
	resp, err := s.client.ListDevices(ctx, &relay.ListDevicesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Devices, nil
}

func (s *GRPCClient) UpdateDevice(ctx context.Context, nameEncrypted *string) error {
	if _, err := s.client.UpdateDevice(ctx, &relay.UpdateDeviceRequest{DeviceNameEncrypted: nameEncrypted}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Touch(ctx context.Context) (time.Time, error) {
	resp, err := s.client.Touch(ctx, &relay.TouchRequest{})
	if err != nil {
		return time.Time{}, s.mapError(err)
	}
	return resp.ServerTime, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == ErrNoSession {
		return err
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return common.ErrorForbidden
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.AlreadyExists:
		return common.ErrorAlreadyExists
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
