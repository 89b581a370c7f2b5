package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/dutybadge/internal/api"
)

// DutyServiceServer is the server side of dutybadge.v1.DutyService. Messages
// are protobuf well-known types; structured payloads travel as Struct values
// holding the api package shapes.
type DutyServiceServer interface {
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	StartService(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	StopService(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListOnDuty(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// DutyServiceDesc describes the service to grpc.Server.RegisterService.
var DutyServiceDesc = grpc.ServiceDesc{
	ServiceName: api.ServiceName,
	HandlerType: (*DutyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod[emptypb.Empty]("Ping", DutyServiceServer.Ping),
		unaryMethod[emptypb.Empty]("StartService", DutyServiceServer.StartService),
		unaryMethod[emptypb.Empty]("StopService", DutyServiceServer.StopService),
		unaryMethod[emptypb.Empty]("GetStatus", DutyServiceServer.GetStatus),
		unaryMethod[emptypb.Empty]("ListOnDuty", DutyServiceServer.ListOnDuty),
		unaryMethod[structpb.Struct]("GetReport", DutyServiceServer.GetReport),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dutybadge/v1/duty.proto",
}

// RegisterDutyServiceServer registers srv on s.
func RegisterDutyServiceServer(s grpc.ServiceRegistrar, srv DutyServiceServer) {
	s.RegisterService(&DutyServiceDesc, srv)
}

// unaryMethod builds the method handler protoc would generate for a unary
// call: decode the request, then run it through the interceptor chain.
func unaryMethod[Req any, PReq interface {
	*Req
	proto.Message
}, Resp proto.Message](name string, call func(DutyServiceServer, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + api.ServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			impl := srv.(DutyServiceServer)
			if interceptor == nil {
				return call(impl, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(impl, ctx, req.(PReq))
			})
		},
	}
}
