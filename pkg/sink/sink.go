package sink

import (
	"context"
	"errors"

	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
)

// ErrUpload wraps any failure while writing a batch to its destination.
var ErrUpload = errors.New("upload failed")

// UploadBatch is the unit of publishing: every table produced for one
// shop, bound for one destination spreadsheet. It exists only for the
// duration of a Publish call.
type UploadBatch struct {
	SpreadsheetID string
	Tables        []*domain.Table
}

// Publisher writes a batch to a destination. Tables with zero rows are
// skipped so an empty upstream result never wipes a destination range.
// Rollback is a best-effort hook invoked after a failed Publish; see the
// concrete sinks for what it actually guarantees.
type Publisher interface {
	Publish(ctx context.Context, batch *UploadBatch) error
	Rollback(ctx context.Context, batch *UploadBatch) error
}
