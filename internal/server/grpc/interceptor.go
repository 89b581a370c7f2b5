package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/dutybadge/internal/api"
	"github.com/dmitrijs2005/dutybadge/internal/common"
	"github.com/dmitrijs2005/dutybadge/internal/logging"
	"github.com/dmitrijs2005/dutybadge/internal/server/auth"
)

// publicMethods need no token. Health checks come from probes that hold
// no credentials.
var publicMethods = map[string]bool{
	api.MethodPing:                       true,
	healthpb.Health_Check_FullMethodName: true,
	healthpb.Health_Watch_FullMethodName: true,
}

// adminMethods need the admin claim.
var adminMethods = map[string]bool{
	api.MethodListOnDuty: true,
	api.MethodGetReport:  true,
}

func firstMetadata(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// requestIDInterceptor tags the call with a request id, taken from the
// x-request-id metadata when the client sent one, and logs the outcome.
func (s *GRPCServer) requestIDInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := firstMetadata(ctx, common.RequestIDHeaderName)
	if id == "" {
		id = uuid.NewString()
	}
	ctx = logging.WithAttrs(ctx, "request_id", id)
	// fails outside a real transport stream, e.g. in unit tests
	_ = grpc.SetHeader(ctx, metadata.Pairs(common.RequestIDHeaderName, id))

	started := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "grpc call", "method", info.FullMethod, "code", status.Code(err).String(), "elapsed", time.Since(started).String())
	return resp, err
}

// accessTokenInterceptor verifies the access token and stores the caller's
// identity in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	accessToken := firstMetadata(ctx, common.AccessTokenHeaderName)
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	id, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		s.logger.Warn(ctx, "rejected token", "method", info.FullMethod, "error", err)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	if adminMethods[info.FullMethod] && !id.Admin {
		return nil, status.Error(codes.PermissionDenied, "admin permission required")
	}

	ctx = logging.WithAttrs(auth.WithIdentity(ctx, id), "user_id", id.UserID)
	return handler(ctx, req)
}
