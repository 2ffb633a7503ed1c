package subm

import (
	"github.com/google/uuid"

	"github.com/llmarena/backend/verdict"
)

// State is the lifecycle state of a submission. Terminal states
// (COMPLETED, ERROR) are immutable once stored.
type State string

const (
	StateQueued     State = "QUEUED"
	StateProcessing State = "PROCESSING"
	StateCompleted  State = "COMPLETED"
	StateError      State = "ERROR"
)

// Submission is the full record owned by the store. Workers hold
// only a transient copy of its inputs while processing.
type Submission struct {
	UUID      uuid.UUID
	ProblemID string
	Code      string

	State    State
	Verdict  *verdict.Verdict // set when State is COMPLETED
	ErrorMsg string           // set when State is ERROR
}
