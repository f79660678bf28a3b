package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/dmitrijs2005/clipshare/internal/models"
	"github.com/dmitrijs2005/clipshare/internal/relay"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes. Unknown errors are
// reported as Internal without their text.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrorInvalidSessionCode),
		errors.Is(err, common.ErrorInvalidDeviceID),
		errors.Is(err, common.ErrorInvalidItemKind),
		errors.Is(err, common.ErrorInvalidItemID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) Ping(ctx context.Context, _ *relay.PingRequest) (*relay.PingResponse, error) {
	return &relay.PingResponse{Status: "ok"}, nil
}

func (s *GRPCServer) JoinSession(ctx context.Context, req *relay.JoinSessionRequest) (*relay.JoinSessionResponse, error) {
	res, err := s.sessions.Join(ctx, req.SessionCode, req.DeviceID, req.DeviceNameEncrypted, req.Create)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "device joined",
		"session", common.MaskSessionCode(req.SessionCode),
		"created", req.Create,
		"host", res.IsHost)

	return &relay.JoinSessionResponse{
		AccessToken: res.AccessToken,
		Session:     res.Session,
		IsHost:      res.IsHost,
	}, nil
}

func (s *GRPCServer) PutItem(ctx context.Context, req *relay.PutItemRequest) (*relay.PutItemResponse, error) {
	sub, err := subjectFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row, err := s.items.Put(ctx, sub.SessionCode, sub.DeviceID, req.Item)
	if err != nil {
		return nil, toStatus(err)
	}

	return &relay.PutItemResponse{ID: row.ID, CreatedAt: row.CreatedAt}, nil
}

func (s *GRPCServer) ListItems(ctx context.Context, req *relay.ListItemsRequest) (*relay.ListItemsResponse, error) {
	sub, err := subjectFromContext(ctx)
	if err != nil {
		return nil, err
	}

	after := models.ItemCursor{CreatedAt: req.Since, ID: req.AfterID}
	rows, err := s.items.List(ctx, sub.SessionCode, after, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}

	return &relay.ListItemsResponse{Items: rows}, nil
}

func (s *GRPCServer) DeleteItem(ctx context.Context, req *relay.DeleteItemRequest) (*relay.DeleteItemResponse, error) {
	sub, err := subjectFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.items.Delete(ctx, sub.SessionCode, sub.DeviceID, req.ID); err != nil {
		return nil, toStatus(err)
	}

	return &relay.DeleteItemResponse{}, nil
}

func (s *GRPCServer) ListDevices(ctx context.Context, _ *relay.ListDevicesRequest) (*relay.ListDevicesResponse, error) {
	sub, err := subjectFromContext(ctx)
	if err != nil {
		return nil, err
	}

	devs, err := s.devices.List(ctx, sub.SessionCode)
	if err != nil {
		return nil, toStatus(err)
	}

	return &relay.ListDevicesResponse{Devices: devs}, nil
}

func (s *GRPCServer) UpdateDevice(ctx context.Context, req *relay.UpdateDeviceRequest) (*relay.UpdateDeviceResponse, error) {
	sub, err := subjectFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.devices.Rename(ctx, sub.SessionCode, sub.DeviceID, req.DeviceNameEncrypted); err != nil {
		return nil, toStatus(err)
	}

	return &relay.UpdateDeviceResponse{}, nil
}

func (s *GRPCServer) Touch(ctx context.Context, _ *relay.TouchRequest) (*relay.TouchResponse, error) {
	sub, err := subjectFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now, err := s.sessions.Touch(ctx, sub.SessionCode, sub.DeviceID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &relay.TouchResponse{ServerTime: now}, nil
}
