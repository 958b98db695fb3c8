package feedback

import (
	"fmt"
	"strings"
)

// Status is the triage lifecycle state of a feedback record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusIgnored    Status = "ignored"
)

// transitions is the closed edge set of the lifecycle. Terminal states have
// no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusResolved, StatusIgnored},
	StatusInProgress: {StatusResolved, StatusIgnored},
	StatusResolved:   {},
	StatusIgnored:    {},
}

func AllStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusResolved, StatusIgnored}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := transitions[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	edges, ok := transitions[s]
	return ok && len(edges) == 0
}

func (s Status) String() string { return string(s) }

// CanTransition reports whether from -> to is a permitted edge.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidSources returns every status from which `to` is reachable in one
// step. The store uses this set as the condition of the transition UPDATE.
func ValidSources(to Status) []Status {
	sources := make([]Status, 0, 2)
	for _, from := range AllStatuses() {
		if CanTransition(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}
