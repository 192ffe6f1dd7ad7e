package sheets

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
	"github.com/tamnguyenvan/timegroup/pkg/sink"
)

// Publisher writes report tables to Google Sheets ranges. Replace
// tables clear their destination range first; append tables write after
// existing content.
type Publisher struct {
	svc *sheets.Service
}

// NewPublisher builds a Sheets-backed publisher. Callers supply auth and
// endpoint through client options (an oauth2 HTTP client in production,
// a test server in tests).
func NewPublisher(ctx context.Context, opts ...option.ClientOption) (*Publisher, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Publisher{svc: svc}, nil
}

// Publish uploads every non-empty table of the batch. The first failure
// fails the whole batch.
func (p *Publisher) Publish(ctx context.Context, batch *sink.UploadBatch) error {
	logger := zerolog.Ctx(ctx)

	for _, table := range batch.Tables {
		if table.RowCount() == 0 {
			logger.Debug().Str("table", table.Name).Msg("skipping empty table")
			continue
		}

		rangeName := fmt.Sprintf("%s!%s", table.Name, table.Range)
		logger.Debug().
			Str("table", table.Name).
			Str("range", rangeName).
			Int("rows", table.RowCount()).
			Str("policy", string(table.Policy)).
			Msg("uploading table")

		var err error
		switch table.Policy {
		case "", domain.PolicyReplace:
			err = p.replace(ctx, batch.SpreadsheetID, rangeName, table.Rows)
		case domain.PolicyAppend:
			err = p.append(ctx, batch.SpreadsheetID, rangeName, table.Rows)
		default:
			err = fmt.Errorf("unknown update policy %q", table.Policy)
		}
		if err != nil {
			return fmt.Errorf("%w: table %s range %s: %w",
				sink.ErrUpload, table.Name, rangeName, err)
		}
	}
	return nil
}

// Rollback is best effort only: no compensating writes are issued, the
// failed batch is just logged so the partial state is diagnosable.
func (p *Publisher) Rollback(ctx context.Context, batch *sink.UploadBatch) error {
	zerolog.Ctx(ctx).Warn().
		Str("spreadsheet_id", batch.SpreadsheetID).
		Int("tables", len(batch.Tables)).
		Msg("rollback requested; destination may hold a partial batch")
	return nil
}

func (p *Publisher) replace(ctx context.Context, spreadsheetID, rangeName string, rows [][]any) error {
	_, err := p.svc.Spreadsheets.Values.
		Clear(spreadsheetID, rangeName, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing range: %w", err)
	}

	_, err = p.svc.Spreadsheets.Values.
		Update(spreadsheetID, rangeName, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating range: %w", err)
	}
	return nil
}

func (p *Publisher) append(ctx context.Context, spreadsheetID, rangeName string, rows [][]any) error {
	_, err := p.svc.Spreadsheets.Values.
		Append(spreadsheetID, rangeName, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending to range: %w", err)
	}
	return nil
}
