package domain

import "strings"

type EventKind string

const (
	EventInfo      EventKind = "info"
	EventWarning   EventKind = "warning"
	EventError     EventKind = "error"
	EventSuccess   EventKind = "success"
	EventDeleted   EventKind = "deleted"
	EventMetadata  EventKind = "metadata"
	EventAborted   EventKind = "aborted"
	EventCompleted EventKind = "completed"
)

// Event is one line of batch progress. Index and Total are set for events that
// belong to a file of the selection (Index is 1-based).
type Event struct {
	Kind    EventKind
	Message string
	File    string
	Index   int
	Total   int
	Err     error
}

// Text renders the event as a single newline-terminated progress line.
func (e Event) Text() string {
	if strings.HasSuffix(e.Message, "\n") {
		return e.Message
	}
	return e.Message + "\n"
}
