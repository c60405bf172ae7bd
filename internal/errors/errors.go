package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind string

const (
	InvalidConfig      Kind = "invalid_config"
	Selection          Kind = "selection"
	SelectionEmpty     Kind = "selection_empty"
	Deletion           Kind = "deletion"
	ExtensionWhitelist Kind = "extension_whitelist"
	ExtensionRename    Kind = "extension_rename"
	FilenameFormat     Kind = "filename_format"
	FilenameValidation Kind = "filename_validation"
	ToolInvocation     Kind = "tool_invocation"
	MetadataQuery      Kind = "metadata_query"
	Timestamp          Kind = "timestamp"
	MoveConflict       Kind = "move_conflict"
	MoveFailure        Kind = "move_failure"
	IOFailure          Kind = "io_failure"
	Cancelled          Kind = "cancelled"
	Internal           Kind = "internal"
)

var (
	ErrDuplicateTarget = stderrors.New("multiple files have the same target path")
	ErrTargetExists    = stderrors.New("target already exists")
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// KindOf returns the kind of the first AppError in err's chain, or Internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// UserMessage renders err as the progress line shown to the user.
func UserMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid Environment Variables: %s", appErr.Path)
	case Selection:
		return fmt.Sprintf("Error reading %s: %v", appErr.Path, appErr.Err)
	case SelectionEmpty:
		return fmt.Sprintf("No files found in: %s.", appErr.Path)
	case Deletion:
		return fmt.Sprintf("Error deleting %s: %v", appErr.Path, appErr.Err)
	case ExtensionWhitelist:
		return fmt.Sprintf("Error File extension not whitelisted for %s", appErr.Path)
	case ExtensionRename:
		return fmt.Sprintf("Error updating file extension for %s: %v", appErr.Path, appErr.Err)
	case FilenameFormat:
		return fmt.Sprintf("File Name Format Error: %s", appErr.Path)
	case FilenameValidation:
		return fmt.Sprintf("File Name Validation Error: %s %v", appErr.Path, appErr.Err)
	case ToolInvocation:
		return fmt.Sprintf("ExifTool processing failed for %s: %v", appErr.Path, appErr.Err)
	case MetadataQuery:
		return fmt.Sprintf("Error fetching metadata for %s: %v", appErr.Path, appErr.Err)
	case Timestamp:
		return fmt.Sprintf("Error setting modified date for %s: %v", appErr.Path, appErr.Err)
	case MoveConflict:
		if stderrors.Is(appErr.Err, ErrTargetExists) {
			return fmt.Sprintf("Conflict found: %s already exists.", appErr.Path)
		}
		return fmt.Sprintf("Conflict found: Multiple files have the same target path %s", appErr.Path)
	case MoveFailure:
		return fmt.Sprintf("Error moving %s: %v", appErr.Path, appErr.Err)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s: %v", appErr.Path, appErr.Err)
	case Cancelled:
		return fmt.Sprintf("Processing cancelled before %s: %v", appErr.Path, appErr.Err)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
