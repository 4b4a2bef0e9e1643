package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"woingest/internal"
	"woingest/internal/util"
)

// ExportRunsToXLSX writes journal rows to a workbook for operators.
func ExportRunsToXLSX(runs []internal.RunRow, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{
		"id", "trace_id", "file", "outcome", "rows", "uploaded",
		"requests", "failed_chunks", "duration_ms", "error", "created_at",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, run := range runs {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, run.ID)
		set(2, run.TraceID)
		set(3, run.FilePath)
		set(4, run.Outcome)
		set(5, run.Rows)
		set(6, run.Uploaded)
		set(7, run.Requests)
		set(8, run.FailedChunks)
		set(9, run.DurationMs)
		set(10, util.DerefString(run.Error))
		set(11, run.CreatedAt)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
