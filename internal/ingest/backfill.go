package ingest

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/christianWissmann85/claude-memory-hook/internal/config"
	"github.com/christianWissmann85/claude-memory-hook/internal/model"
	"github.com/christianWissmann85/claude-memory-hook/internal/store"
	"github.com/christianWissmann85/claude-memory-hook/internal/transcript"
)

// BackfillResult summarizes a bulk ingestion pass.
type BackfillResult struct {
	Scanned      int // transcripts found
	Stored       int
	AlreadyKnown int // skipped, id already in the store
	OtherProject int // skipped, belongs to a different project
	Empty        int // skipped, no user prompts
	Failed       int // unreadable, or carried no id or project dir
}

// ProgressFunc reports parse progress during a backfill.
type ProgressFunc func(current, total int)

type backfillParse struct {
	meta *model.SessionMeta
	err  error
}

// Backfill parses every historical transcript under claudeDir and stores the
// ones that belong to projectDir. Parsing runs on a bounded worker pool;
// writes happen serially afterwards so the store sees a single writer.
func Backfill(claudeDir, projectDir string, opts Options, progressFn ProgressFunc) (*BackfillResult, error) {
	files, err := transcript.Discover(claudeDir)
	if err != nil {
		return nil, err
	}

	result := &BackfillResult{Scanned: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	parses := make([]backfillParse, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				meta, err := transcript.ParseClaude(files[idx].Path)
				parses[idx] = backfillParse{meta: meta, err: err}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	s, err := store.Open(config.DBPath(projectDir))
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()

	for i, p := range parses {
		if p.err != nil {
			result.Failed++
			continue
		}
		meta := p.meta
		if meta.SessionID == "" {
			meta.SessionID = files[i].SessionID
		}
		if meta.SessionID == "" {
			result.Failed++
			continue
		}

		if meta.ProjectDir == "" {
			result.Failed++
			continue
		}
		// Only the current project's store is ever written
		if config.FindProjectRoot(meta.ProjectDir) != projectDir {
			result.OtherProject++
			continue
		}

		if opts.SkipEmpty && len(meta.UserPrompts) == 0 {
			result.Empty++
			continue
		}

		exists, err := s.SessionExists(meta.SessionID)
		if err != nil {
			return result, err
		}
		if exists {
			result.AlreadyKnown++
			continue
		}

		if err := s.InsertSession(meta); err != nil {
			return result, err
		}
		result.Stored++
	}

	return result, nil
}
