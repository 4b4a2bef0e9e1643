package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"woingest/internal"
	"woingest/internal/util"
)

func TestExportRunsToXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports", "runs.xlsx")
	runs := []internal.RunRow{
		{ID: 2, TraceID: "t2", FilePath: "/in/a.xlsx", Outcome: "archived", Rows: 3, Uploaded: 3, Requests: 1, DurationMs: 12, CreatedAt: "2026-10-19 10:00:00"},
		{ID: 1, TraceID: "t1", FilePath: "/in/a.xlsx", Outcome: "upload_failed", Rows: 3, Requests: 1, FailedChunks: 1, Error: util.StringPtr("status=500")},
	}
	require.NoError(t, ExportRunsToXLSX(runs, out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "trace_id", rows[0][1])
	assert.Equal(t, "archived", rows[1][3])
	assert.Equal(t, "status=500", rows[2][9])
}
