package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
	"github.com/tamnguyenvan/timegroup/pkg/sink"
)

func TestPublisher_WritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(dir)

	batch := &sink.UploadBatch{
		Tables: []*domain.Table{
			{
				Name:    "Pos data",
				Columns: []string{"Ngày tạo đơn", "COD", "Số lượng"},
				Rows: [][]any{
					{"12/05/2024", 250000.0, 2},
					{"", "", 1},
				},
			},
			{Name: "CHỜ HÀNG", Columns: []string{"a"}},
		},
	}

	require.NoError(t, p.Publish(context.Background(), batch))

	f, err := os.Open(filepath.Join(dir, "pos_data.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Ngày tạo đơn", "COD", "Số lượng"}, records[0])
	assert.Equal(t, []string{"12/05/2024", "250000", "2"}, records[1])

	// Empty table produced no file.
	_, err = os.Stat(filepath.Join(dir, "chờ_hàng.csv"))
	assert.True(t, os.IsNotExist(err))
}
