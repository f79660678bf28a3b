package relay

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "clipshare.relay.Relay"

const (
	Relay_Ping_FullMethodName         = "/" + ServiceName + "/Ping"
	Relay_JoinSession_FullMethodName  = "/" + ServiceName + "/JoinSession"
	Relay_PutItem_FullMethodName      = "/" + ServiceName + "/PutItem"
	Relay_ListItems_FullMethodName    = "/" + ServiceName + "/ListItems"
	Relay_DeleteItem_FullMethodName   = "/" + ServiceName + "/DeleteItem"
	Relay_ListDevices_FullMethodName  = "/" + ServiceName + "/ListDevices"
	Relay_UpdateDevice_FullMethodName = "/" + ServiceName + "/UpdateDevice"
	Relay_Touch_FullMethodName        = "/" + ServiceName + "/Touch"
)

// RelayServer is implemented by the relay.
type RelayServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	JoinSession(context.Context, *JoinSessionRequest) (*JoinSessionResponse, error)
	PutItem(context.Context, *PutItemRequest) (*PutItemResponse, error)
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
	DeleteItem(context.Context, *DeleteItemRequest) (*DeleteItemResponse, error)
	ListDevices(context.Context, *ListDevicesRequest) (*ListDevicesResponse, error)
	UpdateDevice(context.Context, *UpdateDeviceRequest) (*UpdateDeviceResponse, error)
	Touch(context.Context, *TouchRequest) (*TouchResponse, error)
}

// unaryHandler adapts a typed RelayServer method to a grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(RelayServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RelayServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RelayServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Relay_ServiceDesc describes the Relay service for grpc.Server.RegisterService.
var Relay_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RelayServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(Relay_Ping_FullMethodName, RelayServer.Ping)},
		{MethodName: "JoinSession", Handler: unaryHandler(Relay_JoinSession_FullMethodName, RelayServer.JoinSession)},
		{MethodName: "PutItem", Handler: unaryHandler(Relay_PutItem_FullMethodName, RelayServer.PutItem)},
		{MethodName: "ListItems", Handler: unaryHandler(Relay_ListItems_FullMethodName, RelayServer.ListItems)},
		{MethodName: "DeleteItem", Handler: unaryHandler(Relay_DeleteItem_FullMethodName, RelayServer.DeleteItem)},
		{MethodName: "ListDevices", Handler: unaryHandler(Relay_ListDevices_FullMethodName, RelayServer.ListDevices)},
		{MethodName: "UpdateDevice", Handler: unaryHandler(Relay_UpdateDevice_FullMethodName, RelayServer.UpdateDevice)},
		{MethodName: "Touch", Handler: unaryHandler(Relay_Touch_FullMethodName, RelayServer.Touch)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "relay",
}

func RegisterRelayServer(s grpc.ServiceRegistrar, srv RelayServer) {
	s.RegisterService(&Relay_ServiceDesc, srv)
}

// RelayClient is the client API of the Relay service.
type RelayClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	JoinSession(ctx context.Context, in *JoinSessionRequest, opts ...grpc.CallOption) (*JoinSessionResponse, error)
	PutItem(ctx context.Context, in *PutItemRequest, opts ...grpc.CallOption) (*PutItemResponse, error)
	ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error)
	DeleteItem(ctx context.Context, in *DeleteItemRequest, opts ...grpc.CallOption) (*DeleteItemResponse, error)
	ListDevices(ctx context.Context, in *ListDevicesRequest, opts ...grpc.CallOption) (*ListDevicesResponse, error)
	UpdateDevice(ctx context.Context, in *UpdateDeviceRequest, opts ...grpc.CallOption) (*UpdateDeviceResponse, error)
	Touch(ctx context.Context, in *TouchRequest, opts ...grpc.CallOption) (*TouchResponse, error)
}

type relayClient struct {
	cc grpc.ClientConnInterface
}

// NewRelayClient wraps cc. Every call forces Codec.
func NewRelayClient(cc grpc.ClientConnInterface) RelayClient {
	return &relayClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *relayClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, Relay_Ping_FullMethodName, in, opts)
}

func (c *relayClient) JoinSession(ctx context.Context, in *JoinSessionRequest, opts ...grpc.CallOption) (*JoinSessionResponse, error) {
	return invoke[JoinSessionResponse](ctx, c.cc, Relay_JoinSession_FullMethodName, in, opts)
}

func (c *relayClient) PutItem(ctx context.Context, in *PutItemRequest, opts ...grpc.CallOption) (*PutItemResponse, error) {
	return invoke[PutItemResponse](ctx, c.cc, Relay_PutItem_FullMethodName, in, opts)
}

func (c *relayClient) ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c.cc, Relay_ListItems_FullMethodName, in, opts)
}

func (c *relayClient) DeleteItem(ctx context.Context, in *DeleteItemRequest, opts ...grpc.CallOption) (*DeleteItemResponse, error) {
	return invoke[DeleteItemResponse](ctx, c.cc, Relay_DeleteItem_FullMethodName, in, opts)
}

func (c *relayClient) ListDevices(ctx context.Context, in *ListDevicesRequest, opts ...grpc.CallOption) (*ListDevicesResponse, error) {
	return invoke[ListDevicesResponse](ctx, c.cc, Relay_ListDevices_FullMethodName, in, opts)
}

func (c *relayClient) UpdateDevice(ctx context.Context, in *UpdateDeviceRequest, opts ...grpc.CallOption) (*UpdateDeviceResponse, error) {
	return invoke[UpdateDeviceResponse](ctx, c.cc, Relay_UpdateDevice_FullMethodName, in, opts)
}

func (c *relayClient) Touch(ctx context.Context, in *TouchRequest, opts ...grpc.CallOption) (*TouchResponse, error) {
	return invoke[TouchResponse](ctx, c.cc, Relay_Touch_FullMethodName, in, opts)
}
