package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/dutybadge/internal/api"
	"github.com/dmitrijs2005/dutybadge/internal/server/auth"
	"github.com/dmitrijs2005/dutybadge/internal/server/views"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("OK"), nil
}

func (s *GRPCServer) StartService(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	info, err := s.duty.Start(ctx, id.UserID, id.DisplayName)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.payload(ctx, views.StartResult(info))
}

func (s *GRPCServer) StopService(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	info, err := s.duty.Stop(ctx, id.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.payload(ctx, views.StopResult(info))
}

func (s *GRPCServer) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.payload(ctx, views.Status(s.reports.Status(ctx, id.UserID)))
}

func (s *GRPCServer) ListOnDuty(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.payload(ctx, views.OnDuty(s.reports.OnDuty(ctx)))
}

func (s *GRPCServer) GetReport(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req api.ReportRequest
	if err := api.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed report request")
	}
	if req.UserID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id is required")
	}

	rep, err := s.reports.Report(ctx, req.UserID, req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.payload(ctx, views.Report(rep))
}

func caller(ctx context.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(ctx)
	if !ok {
		return auth.Identity{}, status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func (s *GRPCServer) payload(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := api.ToStruct(v)
	if err != nil {
		s.logger.Error(ctx, "encode response", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

// toStatus maps domain errors to FailedPrecondition or NotFound and hides
// storage failures behind Unavailable.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	p := views.Classify(err)

	var code codes.Code
	switch p.Kind {
	case views.KindAlreadyOnDuty, views.KindNotOnDuty, views.KindClockSkew:
		code = codes.FailedPrecondition
	case views.KindUnknownUser:
		code = codes.NotFound
	case views.KindUnavailable:
		code = codes.Unavailable
	case views.KindCanceled:
		code = codes.Canceled
	default:
		s.logger.Error(ctx, "unexpected error", "error", err)
		code = codes.Internal
	}
	return status.Error(code, p.Message)
}
