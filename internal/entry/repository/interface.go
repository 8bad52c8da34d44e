package repository

import "context"

// Repository stores one record per call.
type Repository interface {
	// CreateRecord inserts fields (keyed by domain field name) into table and
	// returns the new record's identifier.
	CreateRecord(ctx context.Context, table string, fields map[string]any) (string, error)
}
