package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/dutybadge/internal/api"
	"github.com/dmitrijs2005/dutybadge/internal/common"
	"github.com/dmitrijs2005/dutybadge/internal/server/auth"
	"github.com/dmitrijs2005/dutybadge/internal/server/models"
	"github.com/dmitrijs2005/dutybadge/internal/server/repositories/records"
)

var (
	alice = auth.Identity{UserID: "111", DisplayName: "alice"}
	admin = auth.Identity{UserID: "999", DisplayName: "boss", Admin: true}
)

func TestPing(t *testing.T) {
	s, _ := newTestServer(t, records.NewMemoryStore())
	conn := dial(t, s)

	out := &wrapperspb.StringValue{}
	require.NoError(t, conn.Invoke(context.Background(), api.MethodPing, &emptypb.Empty{}, out))
	assert.Equal(t, "OK", out.GetValue())

	hc, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: api.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hc.GetStatus())
}

func TestStartStopStatusFlow(t *testing.T) {
	s, clk := newTestServer(t, records.NewMemoryStore())
	conn := dial(t, s)
	ctx := tokenCtx(t, alice)

	out := &structpb.Struct{}
	require.NoError(t, conn.Invoke(ctx, api.MethodStartService, &emptypb.Empty{}, out))
	var started api.StartResult
	require.NoError(t, api.FromStruct(out, &started))
	assert.Equal(t, "alice", started.DisplayName)
	assert.True(t, started.Start.Equal(t0))

	err := conn.Invoke(ctx, api.MethodStartService, &emptypb.Empty{}, &structpb.Struct{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "already on duty")

	clk.Advance(3661 * time.Second)

	require.NoError(t, conn.Invoke(ctx, api.MethodGetStatus, &emptypb.Empty{}, out))
	var st api.Status
	require.NoError(t, api.FromStruct(out, &st))
	assert.True(t, st.OnDuty)
	assert.Equal(t, int64(3661), st.ElapsedSeconds)

	require.NoError(t, conn.Invoke(ctx, api.MethodStopService, &emptypb.Empty{}, out))
	var stopped api.StopResult
	require.NoError(t, api.FromStruct(out, &stopped))
	assert.Equal(t, int64(3661), stopped.Session.DurationSeconds)
	assert.Equal(t, api.Breakdown{Hours: 1, Minutes: 1, Seconds: 1}, stopped.Session.Duration)

	err = conn.Invoke(ctx, api.MethodStopService, &emptypb.Empty{}, &structpb.Struct{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "not on duty")
}

func TestClockSkewIsFailedPrecondition(t *testing.T) {
	s, clk := newTestServer(t, records.NewMemoryStore())
	conn := dial(t, s)
	ctx := tokenCtx(t, alice)

	require.NoError(t, conn.Invoke(ctx, api.MethodStartService, &emptypb.Empty{}, &structpb.Struct{}))
	clk.Set(t0.Add(-time.Minute))

	err := conn.Invoke(ctx, api.MethodStopService, &emptypb.Empty{}, &structpb.Struct{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "clock moved backwards")
}

func TestAdminCalls(t *testing.T) {
	s, clk := newTestServer(t, records.NewMemoryStore())
	conn := dial(t, s)

	require.NoError(t, conn.Invoke(tokenCtx(t, alice), api.MethodStartService, &emptypb.Empty{}, &structpb.Struct{}))
	clk.Advance(2 * time.Minute)

	adminCtx := tokenCtx(t, admin)

	out := &structpb.Struct{}
	require.NoError(t, conn.Invoke(adminCtx, api.MethodListOnDuty, &emptypb.Empty{}, out))
	var list api.OnDutyList
	require.NoError(t, api.FromStruct(out, &list))
	require.Len(t, list.Users, 1)
	assert.Equal(t, "111", list.Users[0].UserID)
	assert.Equal(t, int64(120), list.Users[0].ElapsedSeconds)

	req, err := api.ToStruct(api.ReportRequest{UserID: "111", Limit: 3})
	require.NoError(t, err)
	require.NoError(t, conn.Invoke(adminCtx, api.MethodGetReport, req, out))
	var rep api.Report
	require.NoError(t, api.FromStruct(out, &rep))
	assert.True(t, rep.OnDuty)
	assert.Empty(t, rep.Recent)

	req, err = api.ToStruct(api.ReportRequest{UserID: "ghost"})
	require.NoError(t, err)
	err = conn.Invoke(adminCtx, api.MethodGetReport, req, out)
	assert.Equal(t, codes.NotFound, status.Code(err))

	req, err = api.ToStruct(api.ReportRequest{})
	require.NoError(t, err)
	err = conn.Invoke(adminCtx, api.MethodGetReport, req, out)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	err = conn.Invoke(tokenCtx(t, alice), api.MethodListOnDuty, &emptypb.Empty{}, out)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

type brokenStore struct{ records.MemoryStore }

func (b *brokenStore) Save(context.Context, map[string]*models.UserRecord) error {
	return errors.Join(common.ErrIOFailure, errors.New("open /var/lib/dutybadge/state.json: read-only file system"))
}

func TestStorageFailureIsUnavailable(t *testing.T) {
	s, _ := newTestServer(t, &brokenStore{})
	conn := dial(t, s)

	err := conn.Invoke(tokenCtx(t, alice), api.MethodStartService, &emptypb.Empty{}, &structpb.Struct{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Equal(t, "storage unavailable", status.Convert(err).Message())
}

func TestCallsWithoutTokenAreRejected(t *testing.T) {
	s, _ := newTestServer(t, records.NewMemoryStore())
	conn := dial(t, s)

	err := conn.Invoke(context.Background(), api.MethodGetStatus, &emptypb.Empty{}, &structpb.Struct{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
