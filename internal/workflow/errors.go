package workflow

import "fmt"

// PreconditionError rejects an action whose workflow-stage preconditions are
// not met, before any external call is made.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s", e.Reason)
}
