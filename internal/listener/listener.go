package listener

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"woingest/internal"
	"woingest/internal/config"
	"woingest/internal/logger"
)

type FileProcessor interface {
	Process(ctx context.Context, path string) (internal.FileResult, error)
}

// Journal receives one row per processed file. Optional.
type Journal interface {
	InsertRun(row internal.RunRow) (int64, error)
	SetMetadata(key, value string) error
}

// FileFault is any failure that stopped one file: decode, transform or a
// recovered panic. The file stays where it is.
type FileFault struct {
	Path string
	Err  error
}

func (e *FileFault) Error() string { return fmt.Sprintf("file %s: %v", e.Path, e.Err) }

func (e *FileFault) Unwrap() error { return e.Err }

// CycleFault is a failure outside any single file, such as a bad glob.
type CycleFault struct {
	Err error
}

func (e *CycleFault) Error() string { return fmt.Sprintf("cycle: %v", e.Err) }

func (e *CycleFault) Unwrap() error { return e.Err }

type Service struct {
	cfg       config.Config
	processor FileProcessor
	journal   Journal
	log       *logger.Logger
}

func NewService(cfg config.Config, processor FileProcessor, journal Journal) *Service {
	return &Service{cfg: cfg, processor: processor, journal: journal, log: logger.Named("listener")}
}

// Run repeats cycles until ctx is cancelled. Cycle failures are logged and
// never end the loop.
func (s *Service) Run(ctx context.Context) error {
	interval := s.cfg.PollInterval()
	for {
		s.RunCycle(ctx)

		s.log.Info().Dur("interval", interval).Time("next", time.Now().Add(interval)).Msg("will look for new files")
		select {
		case <-ctx.Done():
			s.log.Info().Msg("listener stopped")
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle discovers files once and processes each of them.
func (s *Service) RunCycle(ctx context.Context) (res internal.CycleResult) {
	res.TraceID = uuid.NewString()
	start := time.Now()
	log := s.log.With().Str("trace", res.TraceID).Logger()

	defer func() {
		if r := recover(); r != nil {
			res.Err = &CycleFault{Err: fmt.Errorf("panic: %v", r)}
			log.Error().Err(res.Err).Str("stack", string(debug.Stack())).Msg("cycle aborted")
		}
		res.Elapsed = time.Since(start)
	}()

	files, err := Discover(s.cfg.PathMask, s.cfg.ArchiveDirName)
	if err != nil {
		res.Err = &CycleFault{Err: err}
		log.Error().Err(res.Err).Str("mask", s.cfg.PathMask).Msg("discover failed")
		return res
	}
	res.Files = len(files)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(max(s.cfg.FileWorkers, 1))
	for _, path := range files {
		path := path
		g.Go(func() error {
			outcome, fr := s.handleFile(ctx, res.TraceID, path)
			mu.Lock()
			defer mu.Unlock()
			if outcome == internal.OutcomeArchived {
				res.Archived++
				res.Uploaded += fr.Uploaded
			} else {
				res.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	if res.Files > 0 {
		log.Info().
			Int("files", res.Files).
			Int("archived", res.Archived).
			Int("failed", res.Failed).
			Int("uploaded", res.Uploaded).
			Dur("took", time.Since(start).Round(time.Millisecond)).
			Msg("all files parsed")
	}
	if s.journal != nil {
		if err := s.journal.SetMetadata("ingest.last_cycle", time.Now().UTC().Format(time.RFC3339)); err != nil {
			log.Warn().Err(err).Msg("journal metadata write failed")
		}
	}
	return res
}

// handleFile processes, archives and journals one file. Nothing it does can
// escape into the cycle.
func (s *Service) handleFile(ctx context.Context, traceID, path string) (outcome internal.FileOutcome, fr internal.FileResult) {
	start := time.Now()
	name := filepath.Base(path)
	var fault error

	defer func() {
		if r := recover(); r != nil {
			fault = &FileFault{Path: path, Err: fmt.Errorf("panic: %v", r)}
			outcome = internal.OutcomeFault
			s.log.Error().Err(fault).Str("stack", string(debug.Stack())).Msg("file aborted")
		}
		fr.Path = path
		fr.Duration = time.Since(start)
		s.record(traceID, outcome, fr, fault)
	}()

	fr, err := s.processor.Process(ctx, path)
	switch {
	case err != nil:
		fault = &FileFault{Path: path, Err: err}
		outcome = internal.OutcomeFault
		s.log.Error().Err(err).Str("file", name).Int("uploaded", fr.Uploaded).Msg("file skipped")
	case !fr.Success:
		outcome = internal.OutcomeUploadFailed
		fault = fmt.Errorf("%d of %d chunks failed", fr.FailedChunks, fr.Requests)
		s.log.Warn().Str("file", name).Int("failed_chunks", fr.FailedChunks).Int("requests", fr.Requests).Msg("upload incomplete, file left in place")
	default:
		dest, err := Archive(path, s.cfg.ArchiveDirName)
		if err != nil {
			outcome = internal.OutcomeArchiveFailed
			fault = err
			s.log.Error().Err(err).Str("file", name).Msg("archive failed")
			break
		}
		outcome = internal.OutcomeArchived
		s.log.Debug().Str("file", name).Str("dest", dest).Msg("file archived")
	}

	s.log.Info().
		Str("file", name).
		Str("outcome", string(outcome)).
		Int("uploaded", fr.Uploaded).
		Dur("took", time.Since(start).Round(time.Millisecond)).
		Msg("file done")
	return outcome, fr
}

func (s *Service) record(traceID string, outcome internal.FileOutcome, fr internal.FileResult, fault error) {
	if s.journal == nil {
		return
	}
	row := internal.RunRow{
		TraceID:      traceID,
		FilePath:     fr.Path,
		Outcome:      string(outcome),
		Rows:         fr.Rows,
		Uploaded:     fr.Uploaded,
		Requests:     fr.Requests,
		FailedChunks: fr.FailedChunks,
		DurationMs:   fr.Duration.Milliseconds(),
	}
	if fault != nil {
		msg := fault.Error()
		row.Error = &msg
	}
	if _, err := s.journal.InsertRun(row); err != nil {
		s.log.Warn().Err(err).Str("file", fr.Path).Msg("journal write failed")
	}
}

// Discover expands the mask once. Directories, Excel lock files and anything
// already inside an archive directory are left out.
func Discover(mask, archiveDir string) ([]string, error) {
	matches, err := filepath.Glob(mask)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), "~$") {
			continue
		}
		if archiveDir != "" && filepath.Base(filepath.Dir(m)) == archiveDir {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
