package workbook

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/tamnguyenvan/timegroup/pkg/sink"
)

// Publisher writes a batch into a single local .xlsx workbook, one sheet
// per table, header row first. The file is built in memory and saved
// once, so a failed run leaves no partially-written file behind.
type Publisher struct {
	path string
}

func NewPublisher(path string) *Publisher {
	return &Publisher{path: path}
}

func (p *Publisher) Publish(ctx context.Context, batch *sink.UploadBatch) error {
	logger := zerolog.Ctx(ctx)

	f := excelize.NewFile()
	defer f.Close()

	wrote := false
	for _, table := range batch.Tables {
		if table.RowCount() == 0 {
			logger.Debug().Str("table", table.Name).Msg("skipping empty table")
			continue
		}

		if !wrote {
			// Reuse the default sheet for the first table.
			if err := f.SetSheetName("Sheet1", table.Name); err != nil {
				return fmt.Errorf("%w: renaming sheet: %w", sink.ErrUpload, err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return fmt.Errorf("%w: creating sheet %s: %w", sink.ErrUpload, table.Name, err)
		}
		wrote = true

		header := make([]any, len(table.Columns))
		for i, col := range table.Columns {
			header[i] = col
		}
		if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
			return fmt.Errorf("%w: writing header for %s: %w", sink.ErrUpload, table.Name, err)
		}

		for n, row := range table.Rows {
			cell, err := excelize.CoordinatesToCellName(1, n+2)
			if err != nil {
				return fmt.Errorf("%w: %w", sink.ErrUpload, err)
			}
			if err := f.SetSheetRow(table.Name, cell, &row); err != nil {
				return fmt.Errorf("%w: writing row %d of %s: %w", sink.ErrUpload, n, table.Name, err)
			}
		}

		logger.Debug().
			Str("table", table.Name).
			Int("rows", table.RowCount()).
			Msg("sheet written")
	}

	if !wrote {
		logger.Info().Str("path", p.path).Msg("all tables empty, workbook not written")
		return nil
	}

	if err := f.SaveAs(p.path); err != nil {
		return fmt.Errorf("%w: saving workbook %s: %w", sink.ErrUpload, p.path, err)
	}
	return nil
}

// Rollback removes nothing: SaveAs either wrote the whole workbook or
// failed before the file existed.
func (p *Publisher) Rollback(ctx context.Context, batch *sink.UploadBatch) error {
	zerolog.Ctx(ctx).Warn().Str("path", p.path).Msg("rollback requested for workbook sink")
	return nil
}
