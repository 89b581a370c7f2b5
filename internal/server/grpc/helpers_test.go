package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/dutybadge/internal/clock"
	"github.com/dmitrijs2005/dutybadge/internal/common"
	"github.com/dmitrijs2005/dutybadge/internal/logging"
	"github.com/dmitrijs2005/dutybadge/internal/server/auth"
	"github.com/dmitrijs2005/dutybadge/internal/server/repositories/records"
	"github.com/dmitrijs2005/dutybadge/internal/server/services"
	"github.com/dmitrijs2005/dutybadge/internal/server/tracker"
)

const testSecret = "super-secret"

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, store records.Store) (*GRPCServer, *clock.Manual) {
	t.Helper()
	tr, err := tracker.New(context.Background(), store, logging.Nop{})
	require.NoError(t, err)

	clk := clock.NewManual(t0)
	duty := services.NewDutyService(tr, clk, logging.Nop{})
	reports := services.NewReportService(tr, clk, logging.Nop{}, 0)
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, duty, reports, testSecret), clk
}

// dial serves s over an in-memory listener and returns a connected client.
func dial(t *testing.T, s *GRPCServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return conn
}

func tokenCtx(t *testing.T, id auth.Identity) context.Context {
	t.Helper()
	tok, err := auth.GenerateToken(id, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, tok)
}
