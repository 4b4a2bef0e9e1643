package upload

import (
	"context"
	"errors"
	"time"

	"woingest/internal"
	"woingest/internal/logger"
)

// Batch accumulates records and posts them in chunks of at most max.
// A failed chunk is logged and counted; later chunks are still sent.
type Batch struct {
	poster  Poster
	max     int
	source  string
	pending []internal.WorkOrder
	seen    int
	result  internal.UploadResult
	log     *logger.Logger
}

func NewBatch(poster Poster, max int, source string) *Batch {
	if max <= 0 {
		max = 1
	}
	return &Batch{
		poster:  poster,
		max:     max,
		source:  source,
		pending: make([]internal.WorkOrder, 0, min(max, 4096)),
		result:  internal.UploadResult{AllSucceeded: true},
		log:     logger.Named("upload"),
	}
}

func (b *Batch) Add(ctx context.Context, record internal.WorkOrder) {
	b.pending = append(b.pending, record)
	b.seen++
	if len(b.pending) >= b.max {
		b.Flush(ctx)
	}
}

// Flush sends whatever is pending. An empty buffer sends nothing.
func (b *Batch) Flush(ctx context.Context) {
	if len(b.pending) == 0 {
		return
	}
	size := len(b.pending)
	start := time.Now()
	err := b.poster.PostChunk(ctx, b.pending)
	took := time.Since(start).Round(time.Millisecond)

	b.result.Requests++
	if err != nil {
		b.result.Failed++
		b.result.AllSucceeded = false
		ev := b.log.Error().Err(err).Str("file", b.source).Int("size", size).Dur("took", took).Int("rows_read", b.seen)
		var ue *UploadError
		if errors.As(err, &ue) && ue.Status != 0 {
			ev = ev.Int("status", ue.Status).Str("response", ue.Body)
		}
		ev.Msg("chunk upload failed")
	} else {
		b.result.Accepted += size
		b.log.Info().Str("file", b.source).Int("size", size).Dur("took", took).Int("rows_read", b.seen).Int("accepted", b.result.Accepted).Msg("chunk uploaded")
	}
	b.pending = make([]internal.WorkOrder, 0, cap(b.pending))
}

func (b *Batch) Result() internal.UploadResult {
	return b.result
}

// Upload sends records through a fresh Batch and returns the outcome.
func Upload(ctx context.Context, poster Poster, max int, records []internal.WorkOrder) internal.UploadResult {
	b := NewBatch(poster, max, "")
	for _, r := range records {
		b.Add(ctx, r)
	}
	b.Flush(ctx)
	return b.Result()
}
