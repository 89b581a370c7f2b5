package client

import (
	"context"

	"github.com/dmitrijs2005/dutybadge/internal/api"
)

// Client is the API surface the CLI uses.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Start(ctx context.Context) (api.StartResult, error)
	Stop(ctx context.Context) (api.StopResult, error)
	Status(ctx context.Context) (api.Status, error)
	OnDuty(ctx context.Context) (api.OnDutyList, error)
	Report(ctx context.Context, userID string, limit int) (api.Report, error)
}
