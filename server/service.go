package server

import (
	"context"
	"fmt"

	"canvastetris/tetris"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	serviceName    = "tetris.Inspector"
	sessionsMethod = "/" + serviceName + "/Sessions"
	watchMethod    = "/" + serviceName + "/Watch"
)

// InspectorServer is the server API of the inspector service.
// Messages are protobuf well known types so no generated code is needed.
type InspectorServer interface {
	Sessions(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Watch(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error
}

var inspectorServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*InspectorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Sessions", Handler: sessionsHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "inspector",
}

func sessionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InspectorServer).Sessions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: sessionsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InspectorServer).Sessions(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(InspectorServer).Watch(in, &grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}

// InspectorClient talks to a remote Inspector.
type InspectorClient struct {
	cc grpc.ClientConnInterface
}

func NewInspectorClient(cc grpc.ClientConnInterface) *InspectorClient {
	return &InspectorClient{cc: cc}
}

// Sessions returns the ids of the sessions open on the server.
func (c *InspectorClient) Sessions(ctx context.Context, opts ...grpc.CallOption) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, sessionsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		ids = append(ids, v.GetStringValue())
	}
	return ids, nil
}

// Watcher receives the snapshots of a watched session.
type Watcher struct {
	stream grpc.ServerStreamingClient[structpb.Struct]
}

// Watch subscribes to the session with the given id.
// An unknown id fails on the first Recv with codes.NotFound.
func (c *InspectorClient) Watch(ctx context.Context, id string, opts ...grpc.CallOption) (*Watcher, error) {
	stream, err := c.cc.NewStream(ctx, &inspectorServiceDesc.Streams[0], watchMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}
	if err := x.SendMsg(wrapperspb.String(id)); err != nil {
		return nil, err
	}
	if err := x.CloseSend(); err != nil {
		return nil, err
	}
	return &Watcher{stream: x}, nil
}

// Recv blocks until the next snapshot. It returns io.EOF when the session is closed.
func (w *Watcher) Recv() (*tetris.Snapshot, error) {
	msg, err := w.stream.Recv()
	if err != nil {
		return nil, err
	}
	s, err := proto2Snapshot(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}
