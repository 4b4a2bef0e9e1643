package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"woingest/internal"
	"woingest/internal/config"
	"woingest/internal/logger"
	"woingest/internal/sheet"
	"woingest/internal/upload"
	"woingest/internal/util"
	"woingest/internal/workorder"
)

type Processor struct {
	decoder  sheet.Decoder
	poster   upload.Poster
	maxBatch int
	strict   bool
	statuses workorder.StatusTable
	log      *logger.Logger
}

func NewProcessor(cfg config.Config, decoder sheet.Decoder, poster upload.Poster) *Processor {
	return &Processor{
		decoder:  decoder,
		poster:   poster,
		maxBatch: cfg.MaxBatchSize,
		strict:   cfg.StrictHeaders,
		statuses: workorder.DefaultStatusTable,
		log:      logger.Named("pipeline"),
	}
}

// Process uploads every row of one file. Success is false when any chunk
// failed. A returned error means the file could not be read or transformed;
// chunks sent before the error stay sent.
func (p *Processor) Process(ctx context.Context, path string) (internal.FileResult, error) {
	start := time.Now()
	res := internal.FileResult{Path: path}
	name := filepath.Base(path)

	table, err := p.load(path)
	if err != nil {
		return res, err
	}
	res.Rows = len(table.Rows)
	p.log.Info().Str("file", name).Str("sheet", table.Sheet).Int("rows", res.Rows).Msg("parsing file")

	tr := workorder.NewTransformer(table.Date1904)
	tr.Statuses = p.statuses
	batch := upload.NewBatch(p.poster, p.maxBatch, name)
	for _, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return p.finish(res, batch, start), fmt.Errorf("%s: %w", name, err)
		}
		wo, err := tr.Transform(row)
		if err != nil {
			return p.finish(res, batch, start), fmt.Errorf("%s: %w", name, err)
		}
		batch.Add(ctx, wo)
	}
	batch.Flush(ctx)

	res = p.finish(res, batch, start)
	res.Success = batch.Result().AllSucceeded
	return res, nil
}

// Inspect decodes and transforms a file without uploading anything.
// limit <= 0 returns every row.
func (p *Processor) Inspect(path string, limit int) ([]internal.WorkOrder, error) {
	table, err := p.load(path)
	if err != nil {
		return nil, err
	}
	tr := workorder.NewTransformer(table.Date1904)
	tr.Statuses = p.statuses

	out := make([]internal.WorkOrder, 0, len(table.Rows))
	for _, row := range table.Rows {
		if limit > 0 && len(out) >= limit {
			break
		}
		wo, err := tr.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		out = append(out, wo)
	}
	return out, nil
}

func (p *Processor) load(path string) (sheet.Table, error) {
	table, err := p.decoder.Decode(path)
	if err != nil {
		return sheet.Table{}, err
	}
	if err := workorder.ValidateHeader(table.Header, p.strict); err != nil {
		return sheet.Table{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := Prefill(&table); err != nil {
		return sheet.Table{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return table, nil
}

func (p *Processor) finish(res internal.FileResult, batch *upload.Batch, start time.Time) internal.FileResult {
	ur := batch.Result()
	res.Uploaded = ur.Accepted
	res.Requests = ur.Requests
	res.FailedChunks = ur.Failed
	res.Duration = time.Since(start)
	return res
}

// Prefill applies the column defaults once for the whole table: blank text
// columns stay "", count columns become canonical integers with blank as 0.
func Prefill(table *sheet.Table) error {
	for _, col := range workorder.FillColumns() {
		for i := range table.Rows {
			row := &table.Rows[i]
			if col.Index >= len(row.Cells) {
				row.Cells = append(row.Cells, make([]string, col.Index+1-len(row.Cells))...)
			}
			if col.Kind != workorder.KindCount {
				continue
			}
			n, err := util.ParseCount(row.Cells[col.Index])
			if err != nil {
				return &workorder.FormatError{
					Row:    row.Number,
					Column: col.Index,
					Field:  col.Field,
					Value:  row.Cells[col.Index],
					Reason: "not an integer",
				}
			}
			row.Cells[col.Index] = strconv.Itoa(n)
		}
	}
	return nil
}
