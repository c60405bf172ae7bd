package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"sort"
	"sync/atomic"

	"famedia/internal/config"
	"famedia/internal/domain"
	appErrors "famedia/internal/errors"
	"famedia/internal/logging"
	"famedia/internal/metadata"
)

// Pipeline runs whole batches: selection, per-file processing and the
// optional move into the archive.
type Pipeline struct {
	Config  config.Config
	Library config.Library
	FS      FileSystem
	Tool    MetadataTool
	GPS     GPSProbe
	Zones   TimezoneResolver
	Logger  logging.Logger
}

func NewPipeline(cfg config.Config, fsys FileSystem, tool MetadataTool, gps GPSProbe, zones TimezoneResolver, logger logging.Logger) *Pipeline {
	return &Pipeline{
		Config:  cfg,
		Library: cfg.Library(),
		FS:      fsys,
		Tool:    tool,
		GPS:     gps,
		Zones:   zones,
		Logger:  logger,
	}
}

// Run returns the progress of batch as a lazy sequence. Work happens only
// while the sequence is ranged over, and the sequence can be ranged over once;
// later attempts yield nothing. The last event is always EventCompleted or
// EventAborted unless the consumer stops early.
func (p *Pipeline) Run(ctx context.Context, batch domain.Batch) iter.Seq[domain.Event] {
	var used atomic.Bool
	return func(yield func(domain.Event) bool) {
		if !used.CompareAndSwap(false, true) {
			return
		}
		r := &run{p: p, batch: batch, yield: yield}
		r.execute(ctx)
	}
}

type run struct {
	p       *Pipeline
	batch   domain.Batch
	yield   func(domain.Event) bool
	stopped bool

	file  string
	index int
	total int
}

func (r *run) emit(ev domain.Event) bool {
	if r.stopped {
		return false
	}
	if ev.File == "" {
		ev.File = r.file
	}
	if ev.Index == 0 {
		ev.Index, ev.Total = r.index, r.total
	}
	if !r.yield(ev) {
		r.stopped = true
	}
	return !r.stopped
}

// abort reports err followed by the ending-early trailer.
func (r *run) abort(err error, extra ...string) {
	r.p.Logger.Verbosef("Batch aborted: %v", err)
	if !r.emit(domain.Event{Kind: domain.EventError, Message: appErrors.UserMessage(err), Err: err}) {
		return
	}
	for _, line := range extra {
		if !r.emit(info("%s", line)) {
			return
		}
	}
	r.emit(domain.Event{Kind: domain.EventAborted, Message: r.p.Library.EndingEarly(), Err: err})
}

func (r *run) execute(ctx context.Context) {
	p, batch := r.p, r.batch
	stop := p.Logger.Measure("Batch")
	defer stop()

	loc, err := p.Zones.Resolve(p.Config.Timezone)
	if err != nil {
		r.abort(appErrors.Wrap(appErrors.InvalidConfig, "timezone", "TZ="+p.Config.Timezone, err))
		return
	}

	dir := p.Config.MediaMount().ToInternal(batch.SelectedDirectory)
	if batch.Recursive {
		if !r.emit(info("RECURSIVE_SEARCH is true. Processing files in all subdirectories.")) {
			return
		}
	} else if !r.emit(info("RECURSIVE_SEARCH is false. Processing files in the top-level directory only.")) {
		return
	}

	files, err := r.selectFiles(dir, batch.Recursive)
	if err != nil {
		r.abort(appErrors.Wrap(appErrors.Selection, "select", batch.SelectedDirectory, err))
		return
	}

	if !r.banner() {
		return
	}

	if len(files) == 0 {
		r.abort(appErrors.Wrap(appErrors.SelectionEmpty, "select", batch.SelectedDirectory, errors.New("no files")))
		return
	}

	proc := &Processor{
		Library:  p.Library,
		FS:       p.FS,
		Tool:     p.Tool,
		GPS:      p.GPS,
		Planner:  metadata.NewPlanner(p.Library),
		Location: loc,
		Verbose:  p.Config.Verbose,
		Logger:   p.Logger,
	}

	r.total = len(files)
	processed := make([]string, 0, len(files))
	for i := range files {
		file := &files[i]
		r.index, r.file = i+1, file.Name

		if err := ctx.Err(); err != nil {
			r.abort(appErrors.Wrap(appErrors.Cancelled, "process", file.Name, err))
			return
		}

		outcome, err := proc.Process(ctx, file, batch, r.emit)
		if errors.Is(err, errStopped) || r.stopped {
			return
		}
		if err != nil {
			r.abort(err)
			return
		}
		if outcome == Processed {
			processed = append(processed, file.Path)
		}
	}
	r.index, r.total, r.file = 0, 0, ""

	if p.Config.EnableMoveFiles && batch.MoveSelected {
		if !r.move(ctx, processed) {
			return
		}
	}

	r.emit(domain.Event{Kind: domain.EventCompleted, Message: p.Library.Completed()})
}

func (r *run) banner() bool {
	p, batch := r.p, r.batch
	if p.Config.EnableMoveFiles {
		msg := "MOVE_FILES is false. Files will not be moved."
		if batch.MoveSelected {
			msg = "MOVE_FILES is true. Files will be moved."
		}
		if !r.emit(info("%s", msg)) {
			return false
		}
	}

	msg := "GEOTAG_FILES is false. Files will not be geotaged."
	if batch.Geotagging() {
		status := "disabled"
		if batch.GeotagOverride() {
			status = "enabled"
		}
		msg = fmt.Sprintf("GEOTAG_FILES is true. Files will be geotagged. (Override: %s)", status)
	}
	if !r.emit(info("%s", msg)) {
		return false
	}
	return r.emit(info("-------------- New Process --------------"))
}

// move reports whether the batch may continue to completion.
func (r *run) move(ctx context.Context, sources []string) bool {
	p := r.p
	if !r.emit(info("All files processed successfully - now moving files")) {
		return false
	}

	mover := &Mover{
		FS:     p.FS,
		Root:   p.Config.MoveToDir,
		Mount:  p.Config.MoveMount(),
		Logger: p.Logger,
	}
	plan, err := mover.Plan(sources)
	if err != nil {
		if appErrors.KindOf(err) == appErrors.MoveConflict {
			r.abort(err, "No files will be moved.")
		} else {
			r.abort(err)
		}
		return false
	}
	if err := mover.Execute(ctx, plan); err != nil {
		r.abort(err)
		return false
	}
	return true
}

// isFile reports whether d is a regular file, following symlinks.
// Dangling links are skipped.
func (r *run) isFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := r.p.FS.Stat(path)
	if err != nil {
		r.p.Logger.Warnf("Skipping %s: %v", path, err)
		return false
	}
	return info.Mode().IsRegular()
}

// selectFiles lists the regular files of dir, or of its whole tree when
// recursive, in lexical order. Unreadable subdirectories are skipped.
func (r *run) selectFiles(dir string, recursive bool) ([]domain.MediaFile, error) {
	var paths []string
	if !recursive {
		entries, err := r.p.FS.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if r.isFile(path, e) {
				paths = append(paths, path)
			}
		}
	} else {
		err := r.p.FS.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if path == dir {
					return walkErr
				}
				r.p.Logger.Warnf("Skipping %s: %v", path, walkErr)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if r.isFile(path, d) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(paths)
	files := make([]domain.MediaFile, 0, len(paths))
	for _, path := range paths {
		files = append(files, domain.NewMediaFile(path))
	}
	r.p.Logger.Verbosef("Selected %d files in %s", len(files), dir)
	return files, nil
}
