package airtable

import (
	"context"

	"station-ops-bot/internal/entry/repository"
	pkgAirtable "station-ops-bot/pkg/airtable"
	pkgLog "station-ops-bot/pkg/log"
)

// Client is the subset of the Airtable API this repository needs.
type Client interface {
	CreateRecord(ctx context.Context, table string, fields map[string]any, typecast bool) (*pkgAirtable.Record, error)
}

type implRepository struct {
	l      pkgLog.Logger
	client Client
}

// New creates an Airtable-backed repository.
func New(l pkgLog.Logger, client Client) repository.Repository {
	return &implRepository{l: l, client: client}
}
