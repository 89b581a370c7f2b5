package client

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/dutybadge/internal/api"
	"github.com/dmitrijs2005/dutybadge/internal/common"
)

// invoker is the part of *grpc.ClientConn the client needs.
type invoker interface {
	Invoke(ctx context.Context, method string, args any, reply any, opts ...grpc.CallOption) error
}

type GRPCClient struct {
	endpointURL string
	accessToken string
	conn        *grpc.ClientConn
	cc          invoker
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewDutyClient prepares a connection to endpointURL. The connection is
// established lazily on the first call.
func NewDutyClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.cc = conn
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp := &wrapperspb.StringValue{}
	if err := s.cc.Invoke(ctx, api.MethodPing, &emptypb.Empty{}, resp); err != nil {
		return s.mapError(err)
	}
	if resp.GetValue() != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Start(ctx context.Context) (api.StartResult, error) {
	var out api.StartResult
	err := s.call(ctx, api.MethodStartService, &emptypb.Empty{}, &out)
	return out, err
}

func (s *GRPCClient) Stop(ctx context.Context) (api.StopResult, error) {
	var out api.StopResult
	err := s.call(ctx, api.MethodStopService, &emptypb.Empty{}, &out)
	return out, err
}

func (s *GRPCClient) Status(ctx context.Context) (api.Status, error) {
	var out api.Status
	err := s.call(ctx, api.MethodGetStatus, &emptypb.Empty{}, &out)
	return out, err
}

func (s *GRPCClient) OnDuty(ctx context.Context) (api.OnDutyList, error) {
	var out api.OnDutyList
	err := s.call(ctx, api.MethodListOnDuty, &emptypb.Empty{}, &out)
	return out, err
}

func (s *GRPCClient) Report(ctx context.Context, userID string, limit int) (api.Report, error) {
	var out api.Report

	req, err := api.ToStruct(api.ReportRequest{UserID: userID, Limit: limit})
	if err != nil {
		return out, err
	}
	err = s.call(ctx, api.MethodGetReport, req, &out)
	return out, err
}

// call invokes method and decodes the Struct reply into out.
func (s *GRPCClient) call(ctx context.Context, method string, req proto.Message, out any) error {
	resp := &structpb.Struct{}
	if err := s.cc.Invoke(ctx, method, req, resp); err != nil {
		return s.mapError(err)
	}
	if err := api.FromStruct(resp, out); err != nil {
		return fmt.Errorf("decode %s reply: %w", method, err)
	}
	return nil
}

// mapError turns a gRPC status into a sentinel error. Rejections keep the
// server's explanation, which names the rule that blocked the request.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return common.ErrUnknownUser
	case codes.FailedPrecondition:
		for _, sentinel := range []error{common.ErrAlreadyOnDuty, common.ErrNotOnDuty, common.ErrClockSkew} {
			if strings.HasPrefix(st.Message(), sentinel.Error()) {
				return sentinel
			}
		}
		return fmt.Errorf("rejected: %s", st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
