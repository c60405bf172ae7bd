package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"famedia/internal/config"
	"famedia/internal/domain"
	appErrors "famedia/internal/errors"
	"famedia/internal/logging"
	"famedia/internal/naming"
)

// Mover files processed media into the archive as root/YYYY/"MM - MON"/name.
// Plan validates every target before Execute touches anything.
type Mover struct {
	FS     FileSystem
	Root   string
	Mount  config.Mount
	Logger logging.Logger
}

// TargetPath returns the archive location for a file name that starts with
// "YYYY-MM-".
func TargetPath(root, fileName string) (string, error) {
	year, month, ok := naming.ArchiveMonth(fileName)
	if !ok {
		return "", fmt.Errorf("%s does not start with YYYY-MM-", fileName)
	}
	abbr := strings.ToUpper(time.Month(month).String()[:3])
	return filepath.Join(root, year, fmt.Sprintf("%02d - %s", month, abbr), fileName), nil
}

// Plan computes the move of every source. It fails on the first target that
// repeats within the batch or already exists, in which case nothing is moved.
func (m *Mover) Plan(sources []string) (domain.MovePlan, error) {
	if m.FS == nil {
		return domain.MovePlan{}, errors.New("mover requires FS")
	}

	stop := m.Logger.Measure("Planning moves")
	defer stop()

	seen := make(map[string]struct{}, len(sources))
	ops := make([]domain.MoveOperation, 0, len(sources))

	for _, src := range sources {
		target, err := TargetPath(m.Root, filepath.Base(src))
		if err != nil {
			return domain.MovePlan{}, appErrors.Wrap(appErrors.MoveFailure, "plan move", filepath.Base(src), err)
		}
		external := m.Mount.ToExternal(target)

		if _, dup := seen[target]; dup {
			return domain.MovePlan{}, appErrors.Wrap(appErrors.MoveConflict, "plan move", external, appErrors.ErrDuplicateTarget)
		}
		exists, err := m.FS.Exists(target)
		if err != nil {
			return domain.MovePlan{}, appErrors.Wrap(appErrors.IOFailure, "plan move", external, err)
		}
		if exists {
			return domain.MovePlan{}, appErrors.Wrap(appErrors.MoveConflict, "plan move", external, appErrors.ErrTargetExists)
		}

		seen[target] = struct{}{}
		ops = append(ops, domain.MoveOperation{Source: src, Target: target})
	}

	m.Logger.Verbosef("Planned %d moves into %s", len(ops), m.Root)
	return domain.MovePlan{Operations: ops}, nil
}

// Execute performs a validated plan in order, creating parent directories as
// needed. Moves already done are kept when a later one fails.
func (m *Mover) Execute(ctx context.Context, plan domain.MovePlan) error {
	if m.FS == nil {
		return errors.New("mover requires FS")
	}

	for _, op := range plan.Operations {
		select {
		case <-ctx.Done():
			return appErrors.Wrap(appErrors.Cancelled, "move", filepath.Base(op.Source), ctx.Err())
		default:
		}
		if err := m.FS.MkdirAll(filepath.Dir(op.Target), 0o755); err != nil {
			return appErrors.Wrap(appErrors.MoveFailure, "move", filepath.Base(op.Source), err)
		}
		if err := m.FS.Move(op.Source, op.Target); err != nil {
			return appErrors.Wrap(appErrors.MoveFailure, "move", filepath.Base(op.Source), err)
		}
		m.Logger.Verbosef("Moved %s to %s", op.Source, m.Mount.ToExternal(op.Target))
	}
	return nil
}
