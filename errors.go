package procure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paularlott/procure/rules"
)

// ErrClosed is returned when a closed request is modified.
var ErrClosed = errors.New("procure: request is closed")

// ValidationError carries every problem found in submitted request data.
// The messages are meant for the person who submitted it.
//
// Example usage:
//
//	req, err := procure.NewRequest(userID, draft)
//	var verr *procure.ValidationError
//	if errors.As(err, &verr) {
//	    for _, msg := range verr.Errors {
//	        fmt.Println(msg)
//	    }
//	}
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

func newValidationError(errs []string) error {
	return &ValidationError{Errors: errs}
}

// TransitionError is returned when a status change is not allowed.
type TransitionError struct {
	From    rules.Status
	To      rules.Status
	Message string
}

func (e *TransitionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cannot transition from '%s' to '%s'", e.From, e.To)
	}
	return e.Message
}
