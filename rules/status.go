package rules

import (
	"fmt"
	"slices"
	"strings"
)

// Status is the lifecycle state of a request.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// Closed is terminal.
var transitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusClosed},
	StatusInProgress: {StatusClosed, StatusOpen},
	StatusClosed:     {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// AllowedTransitions returns the states reachable from s in one step.
func AllowedTransitions(s Status) []Status {
	return slices.Clone(transitions[s])
}

func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// ValidateStatusTransition checks a requested status change. Staying in the
// same status is rejected.
func ValidateStatusTransition(current, requested Status) (bool, string) {
	if current == requested {
		return false, fmt.Sprintf("Request is already in '%s' status", requested)
	}

	if !CanTransition(current, requested) {
		allowed := "none"
		if targets := transitions[current]; len(targets) > 0 {
			names := make([]string, len(targets))
			for i, t := range targets {
				names[i] = string(t)
			}
			allowed = strings.Join(names, ", ")
		}
		return false, fmt.Sprintf("Cannot transition from '%s' to '%s'. Allowed transitions: %s", current, requested, allowed)
	}

	return true, ""
}
