// Package watermark persists run progress markers between executions,
// either in a local file or in Postgres.
package watermark

import "context"

// Store is a tiny key/value interface for ms-epoch timestamps. Get
// reports absence separately from failure so a first run can start
// cleanly.
type Store interface {
	Get(ctx context.Context, key string) (int64, bool, error)
	Set(ctx context.Context, key string, value int64) error
}
