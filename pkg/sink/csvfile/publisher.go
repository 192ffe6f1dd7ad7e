package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tamnguyenvan/timegroup/pkg/sink"
)

// Publisher writes each table of a batch to its own CSV file inside a
// directory, named after the table's sheet name.
type Publisher struct {
	dir string
}

func NewPublisher(dir string) *Publisher {
	return &Publisher{dir: dir}
}

func (p *Publisher) Publish(ctx context.Context, batch *sink.UploadBatch) error {
	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", sink.ErrUpload, err)
	}

	for _, table := range batch.Tables {
		if table.RowCount() == 0 {
			logger.Debug().Str("table", table.Name).Msg("skipping empty table")
			continue
		}

		path := filepath.Join(p.dir, fileName(table.Name))
		if err := p.writeTable(path, table.Columns, table.Rows); err != nil {
			return fmt.Errorf("%w: table %s: %w", sink.ErrUpload, table.Name, err)
		}
		logger.Debug().Str("table", table.Name).Str("path", path).Msg("csv written")
	}
	return nil
}

// Rollback leaves already-written files in place; they are complete
// per-table outputs, not partial ones.
func (p *Publisher) Rollback(ctx context.Context, batch *sink.UploadBatch) error {
	zerolog.Ctx(ctx).Warn().Str("dir", p.dir).Msg("rollback requested for csv sink")
	return nil
}

func (p *Publisher) writeTable(path string, columns []string, rows [][]any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = fmt.Sprint(cell)
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fileName(table string) string {
	name := strings.ToLower(strings.TrimSpace(table))
	name = strings.ReplaceAll(name, " ", "_")
	return name + ".csv"
}
