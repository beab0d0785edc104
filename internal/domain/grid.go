package domain

import (
	"context"
	"io"
)

// Grid is the raw rectangular cell range fetched from the spreadsheet source.
// Cells are strings or numbers as delivered by the sheets API; rows may be
// ragged (trailing empty cells are omitted by the API).
type Grid [][]any

// GridFetcher is the pure I/O boundary to the remote tabular data source.
// Implementations perform no parsing and no caching.
type GridFetcher interface {
	Fetch(ctx context.Context) (Grid, error)
}

// BlobWriter uploads data to object storage. The sync pipeline archives every
// fetched raw grid for audit and replay.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}
