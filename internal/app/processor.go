package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"famedia/internal/config"
	"famedia/internal/domain"
	appErrors "famedia/internal/errors"
	"famedia/internal/logging"
	"famedia/internal/metadata"
	"famedia/internal/naming"
)

// errStopped is returned when the event consumer stopped listening.
var errStopped = errors.New("event consumer stopped")

type Outcome int

const (
	Processed Outcome = iota
	Deleted
)

// EmitFunc delivers one event and reports whether the consumer wants more.
type EmitFunc func(domain.Event) bool

// Processor drives a single file from selection to its final timestamps.
type Processor struct {
	Library  config.Library
	FS       FileSystem
	Tool     MetadataTool
	GPS      GPSProbe
	Planner  metadata.Planner
	Location *time.Location
	Verbose  bool
	Logger   logging.Logger
}

// Process runs every step for file, updating it in place when its extension is
// normalized. Any returned error ends the batch.
func (p *Processor) Process(ctx context.Context, file *domain.MediaFile, batch domain.Batch, emit EmitFunc) (Outcome, error) {
	if p.FS == nil || p.Tool == nil {
		return Processed, errors.New("processor requires FS and Tool")
	}
	name := file.Name

	if p.Library.ShouldDelete(name) {
		if err := p.FS.Remove(file.Path); err != nil {
			return Deleted, appErrors.Wrap(appErrors.Deletion, "delete", name, err)
		}
		if !emit(domain.Event{Kind: domain.EventDeleted, Message: fmt.Sprintf("File deleted: %s", name)}) {
			return Deleted, errStopped
		}
		return Deleted, nil
	}

	if !p.Library.Allowed(file.Ext) {
		return Processed, appErrors.Wrap(appErrors.ExtensionWhitelist, "extension", name, fmt.Errorf("extension %q is not supported", file.Ext))
	}

	if err := p.normalizeExtension(file); err != nil {
		return Processed, appErrors.Wrap(appErrors.ExtensionRename, "rename", name, err)
	}

	parsed, err := naming.Parse(name)
	if err != nil {
		kind := appErrors.FilenameValidation
		if errors.Is(err, naming.ErrFormat) {
			kind = appErrors.FilenameFormat
		}
		return Processed, appErrors.Wrap(kind, "parse", name, err)
	}

	if err := p.Tool.Apply(ctx, file.Path, p.Planner.ClearTags()); err != nil {
		return Processed, appErrors.Wrap(appErrors.ToolInvocation, "clear tags", name, err)
	}

	assignments := p.Planner.Plan(parsed, name)

	if batch.Geotagging() {
		geo, err := p.geotag(ctx, file, *batch.Geotag, emit)
		if err != nil {
			return Processed, err
		}
		assignments = append(assignments, geo...)
	}

	if err := p.Tool.Apply(ctx, file.Path, assignments); err != nil {
		return Processed, appErrors.Wrap(appErrors.ToolInvocation, "apply", name, err)
	}
	if !emit(domain.Event{Kind: domain.EventSuccess, Message: fmt.Sprintf("File processed successfully: %s", name)}) {
		return Processed, errStopped
	}

	if p.Verbose {
		if !emit(p.dump(ctx, file, name)) {
			return Processed, errStopped
		}
	}

	at := parsed.Instant(p.Location)
	if err := p.FS.Chtimes(file.Path, at.UTC(), at.UTC()); err != nil {
		return Processed, appErrors.Wrap(appErrors.Timestamp, "modified date", name, err)
	}

	return Processed, nil
}

// normalizeExtension renames the file to its canonical extension. A different
// file already holding the new name is never overwritten.
func (p *Processor) normalizeExtension(file *domain.MediaFile) error {
	ext := p.Library.NormalizeExt(file.Ext)
	if ext == file.Ext {
		return nil
	}
	renamed := file.WithExt(ext)

	if target, err := p.FS.Stat(renamed.Path); err == nil {
		source, err := p.FS.Stat(file.Path)
		if err != nil {
			return err
		}
		if !os.SameFile(source, target) {
			return fmt.Errorf("%s already exists", renamed.Name)
		}
	}

	if err := p.FS.Rename(file.Path, renamed.Path); err != nil {
		return err
	}
	p.Logger.Verbosef("Renamed %s to %s", file.Name, renamed.Name)
	*file = renamed
	return nil
}

func (p *Processor) geotag(ctx context.Context, file *domain.MediaFile, req domain.GeotagRequest, emit EmitFunc) ([]domain.FieldAssignment, error) {
	existing := false
	if p.GPS != nil {
		found, err := p.GPS.HasGPS(ctx, file.Path)
		if err != nil {
			if !emit(warning("   Warning: Could not check existing geotag data for %s: %v", file.Name, err)) {
				return nil, errStopped
			}
		}
		existing = found
	}

	decision := metadata.Decide(existing, req.Override)
	p.Logger.Verbosef("Geotag decision for %s: %s", file.Name, decision)

	switch decision {
	case metadata.SkipWithExistingWarning:
		if !emit(warning("   Warning: Geotag data already exists for: %s", file.Name)) {
			return nil, errStopped
		}
	case metadata.ApplyWithOverrideWarning:
		if !emit(warning("   Warning: Overriding existing geotag data for: %s", file.Name)) {
			return nil, errStopped
		}
	}
	if !decision.Applies() {
		return nil, nil
	}
	return metadata.GeoAssignments(req), nil
}

// dump reads back every field of file. A failed read is only a warning.
func (p *Processor) dump(ctx context.Context, file *domain.MediaFile, name string) domain.Event {
	values, err := p.Tool.Query(ctx, file.Path)
	if err != nil {
		err = appErrors.Wrap(appErrors.MetadataQuery, "dump", name, err)
		return domain.Event{Kind: domain.EventWarning, Message: appErrors.UserMessage(err), Err: err}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "Exif Metadata for %s:\n", name)
	for _, k := range keys {
		fmt.Fprintf(&b, "%-32s: %s\n", k, values[k])
	}
	return domain.Event{Kind: domain.EventMetadata, Message: b.String()}
}

func info(format string, args ...any) domain.Event {
	return domain.Event{Kind: domain.EventInfo, Message: fmt.Sprintf(format, args...)}
}

func warning(format string, args ...any) domain.Event {
	return domain.Event{Kind: domain.EventWarning, Message: fmt.Sprintf(format, args...)}
}
