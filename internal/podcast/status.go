package podcast

// Status is the lifecycle state of a podcast generation run.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// allowed transitions. Forward-only, except a failed run may be retried.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusFailed:     {StatusProcessing},
	StatusCompleted:  {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CanBeProcessed reports whether a run may be started from this status.
func (s Status) CanBeProcessed() bool {
	return s == StatusPending || s == StatusFailed
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
