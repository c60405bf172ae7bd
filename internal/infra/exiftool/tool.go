// Package exiftool adapts the exiftool program to the metadata port.
//
// Writes shell out once per invocation because assignments use exiftool's
// argument grammar ("-Tag+=value", "-Time:all=..."). Reads go through a single
// long-lived go-exiftool process.
package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	goexiftool "github.com/barasher/go-exiftool"

	"famedia/internal/domain"
	"famedia/internal/logging"
	"famedia/internal/metadata"
)

// ToolError carries the diagnostic text exiftool printed on failure.
type ToolError struct {
	Diagnostic string
	Err        error
}

func (e *ToolError) Error() string {
	if e.Diagnostic != "" {
		return e.Diagnostic
	}
	return e.Err.Error()
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

type Tool struct {
	Binary  string
	Timeout time.Duration
	Logger  logging.Logger

	mu        sync.Mutex
	reader    *goexiftool.Exiftool
	readerErr error
	started   bool
}

func New(binary string, timeout time.Duration, logger logging.Logger) *Tool {
	return &Tool{Binary: binary, Timeout: timeout, Logger: logger}
}

// Args renders the command line for one write invocation.
func Args(path string, assignments []domain.FieldAssignment) []string {
	args := make([]string, 0, len(assignments)+3)
	args = append(args, "-overwrite_original", "-P")
	for _, a := range assignments {
		args = append(args, a.String())
	}
	return append(args, path)
}

// Apply writes assignments to path in a single exiftool run.
func (t *Tool) Apply(ctx context.Context, path string, assignments []domain.FieldAssignment) error {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := Args(path, assignments)
	t.Logger.Verbosef("exiftool %d assignments on %s", len(assignments), path)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary(), args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	stop := t.Logger.Measure("exiftool write")
	err := cmd.Run()
	stop()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("exiftool timed out after %s: %w", t.Timeout, ctx.Err())
		}
		return &ToolError{Diagnostic: strings.TrimSpace(stderr.String()), Err: err}
	}
	return nil
}

// Query returns the requested fields of path as text. With no fields every
// field exiftool can read is returned.
func (t *Tool) Query(ctx context.Context, path string, fields ...string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	reader, err := t.ensureReader()
	if err != nil {
		return nil, err
	}

	infos := reader.ExtractMetadata(path)
	if len(infos) == 0 {
		return nil, fmt.Errorf("exiftool returned no metadata for %s", path)
	}
	if infos[0].Err != nil {
		return nil, infos[0].Err
	}

	return selectFields(infos[0].Fields, fields), nil
}

// HasGPS reports whether exiftool sees both a latitude and a longitude.
func (t *Tool) HasGPS(ctx context.Context, path string) (bool, error) {
	values, err := t.Query(ctx, path, metadata.GPSProbeFields...)
	if err != nil {
		return false, err
	}
	return hasPosition(values), nil
}

func hasPosition(values map[string]string) bool {
	for _, field := range metadata.GPSProbeFields {
		if _, ok := values[field]; !ok {
			return false
		}
	}
	return true
}

func (t *Tool) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reader == nil {
		return nil
	}
	err := t.reader.Close()
	t.reader = nil
	t.started = false
	return err
}

func (t *Tool) ensureReader() (*goexiftool.Exiftool, error) {
	if t.started {
		return t.reader, t.readerErr
	}
	t.started = true

	var opts []func(*goexiftool.Exiftool) error
	if t.Binary != "" {
		opts = append(opts, goexiftool.SetExiftoolBinaryPath(t.Binary))
	}
	t.reader, t.readerErr = goexiftool.NewExiftool(opts...)
	if t.readerErr != nil {
		t.Logger.Errorf("Starting exiftool failed: %v", t.readerErr)
	}
	return t.reader, t.readerErr
}

func (t *Tool) binary() string {
	if t.Binary == "" {
		return "exiftool"
	}
	return t.Binary
}

func selectFields(all map[string]interface{}, fields []string) map[string]string {
	out := make(map[string]string, len(all))
	if len(fields) == 0 {
		for k, v := range all {
			out[k] = formatValue(v)
		}
		return out
	}
	for _, f := range fields {
		if v, ok := all[f]; ok {
			out[f] = formatValue(v)
		}
	}
	return out
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprint(val)
	}
}
