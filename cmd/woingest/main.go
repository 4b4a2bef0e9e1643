package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"woingest/internal/config"
	"woingest/internal/listener"
	"woingest/internal/logger"
	"woingest/internal/pipeline"
	"woingest/internal/sheet"
	"woingest/internal/storage"
	"woingest/internal/upload"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	cmd := os.Args[1]
	switch cmd {
	case "watch", "cycle":
		must(cfg.Validate())
		db := openJournal(cfg)
		if db != nil {
			defer db.Close()
		}
		svc := listener.NewService(cfg, newProcessor(cfg), journalOrNil(db))
		if cmd == "cycle" {
			res := svc.RunCycle(context.Background())
			must(res.Err)
			fmt.Printf("cycle done trace=%s files=%d archived=%d failed=%d uploaded=%d\n",
				res.TraceID, res.Files, res.Archived, res.Failed, res.Uploaded)
			return
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		must(svc.Run(ctx))
	case "file":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		path := fs.String("path", "", "spreadsheet to upload")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*path) == "" {
			must(fmt.Errorf("--path is required"))
		}
		must(cfg.Require("BASE_URL", cfg.BaseURL))
		res, err := newProcessor(cfg).Process(context.Background(), *path)
		must(err)
		fmt.Printf("file done rows=%d uploaded=%d requests=%d failed_chunks=%d success=%t\n",
			res.Rows, res.Uploaded, res.Requests, res.FailedChunks, res.Success)
		if !res.Success {
			os.Exit(2)
		}
		dest, err := listener.Archive(*path, cfg.ArchiveDirName)
		must(err)
		fmt.Printf("archived to %s\n", dest)
	case "inspect":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		path := fs.String("path", "", "spreadsheet to read")
		limit := fs.Int("limit", 5, "records to print, 0 for all")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*path) == "" {
			must(fmt.Errorf("--path is required"))
		}
		records, err := newProcessor(cfg).Inspect(*path, *limit)
		must(err)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		must(enc.Encode(records))
	case "history":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "rows to show")
		_ = fs.Parse(os.Args[2:])
		db := openJournal(cfg)
		if db == nil {
			must(fmt.Errorf("DB_PATH is empty, no journal to read"))
		}
		defer db.Close()
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			errText := ""
			if r.Error != nil {
				errText = " error=" + *r.Error
			}
			fmt.Printf("%s %s %s uploaded=%d/%d requests=%d%s\n",
				r.CreatedAt, r.Outcome, r.FilePath, r.Uploaded, r.Rows, r.Requests, errText)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		limit := fs.Int("limit", 1000, "rows to export")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		db := openJournal(cfg)
		if db == nil {
			must(fmt.Errorf("DB_PATH is empty, no journal to read"))
		}
		defer db.Close()
		runs, err := db.ListRuns(*limit)
		must(err)
		if len(runs) == 0 {
			must(fmt.Errorf("journal is empty"))
		}
		must(pipeline.ExportRunsToXLSX(runs, *out))
		fmt.Printf("exported %d runs to %s\n", len(runs), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func newProcessor(cfg config.Config) *pipeline.Processor {
	return pipeline.NewProcessor(cfg, sheet.XLSXDecoder{}, upload.NewClient(cfg))
}

func openJournal(cfg config.Config) *storage.DB {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return nil
	}
	db, err := storage.Open(cfg.DBPath)
	must(err)
	return db
}

// journalOrNil keeps a nil *storage.DB from becoming a non-nil interface.
func journalOrNil(db *storage.DB) listener.Journal {
	if db == nil {
		return nil
	}
	return db
}

func usage() {
	fmt.Println("usage: woingest <command>")
	fmt.Println("commands:")
	fmt.Println("  watch")
	fmt.Println("  cycle")
	fmt.Println("  file --path=./in/orders.xlsx")
	fmt.Println("  inspect --path=./in/orders.xlsx [--limit=5]")
	fmt.Println("  history [--limit=20]")
	fmt.Println("  export:xlsx --out=./out/runs.xlsx [--limit=1000]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
