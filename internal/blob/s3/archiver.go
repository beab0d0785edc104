package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// GridArchiver uploads every fetched raw grid to object storage before it is
// parsed, keyed by fetch time and the snapshot version it produced. The
// archive makes any historical snapshot reproducible: re-running the parser
// over an archived grid must yield the stored snapshot byte for byte.
type GridArchiver struct {
	writer domain.BlobWriter
}

// NewGridArchiver creates a GridArchiver on top of the given writer.
func NewGridArchiver(writer domain.BlobWriter) *GridArchiver {
	return &GridArchiver{writer: writer}
}

// archivedGrid is the stored envelope for one raw fetch.
type archivedGrid struct {
	Version   int         `json:"version"`
	FetchedAt time.Time   `json:"fetchedAt"`
	Grid      domain.Grid `json:"grid"`
}

// Archive uploads one raw grid under grids/{timestamp}_v{version}.json.
func (a *GridArchiver) Archive(ctx context.Context, grid domain.Grid, version int, fetchedAt time.Time) error {
	payload, err := json.Marshal(archivedGrid{
		Version:   version,
		FetchedAt: fetchedAt,
		Grid:      grid,
	})
	if err != nil {
		return fmt.Errorf("s3blob: marshal grid archive: %w", err)
	}

	path := gridPath(version, fetchedAt)
	if err := a.writer.Put(ctx, path, bytes.NewReader(payload), "application/json"); err != nil {
		return fmt.Errorf("s3blob: archive grid %s: %w", path, err)
	}
	return nil
}

// gridPath builds the object key for an archived grid.
//
//	grids/20250829T120000Z_v42.json
func gridPath(version int, fetchedAt time.Time) string {
	return fmt.Sprintf("grids/%s_v%d.json", fetchedAt.UTC().Format("20060102T150405Z"), version)
}
