// Package subm is the submission orchestrator: intake, the FIFO work
// queue, the worker pool and the per-submission evaluation pipeline.
package subm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/llmarena/backend/problem"
	"github.com/llmarena/backend/verdict"
)

// Evaluator runs one test case on the external judge.
type Evaluator interface {
	Evaluate(ctx context.Context, code, input, expected string, lim problem.Limits) (verdict.TestCaseResult, error)
}

// ProblemRepo provides per-problem limits and ordered test cases.
type ProblemRepo interface {
	Limits(problemID string) (problem.Limits, error)
	TestCases(problemID string) ([]problem.TestCase, error)
}

type queueItem struct {
	id        uuid.UUID
	code      string
	problemID string
}

const DefaultQueueSize = 1024

type SubmissionSrvc struct {
	logger *slog.Logger

	judge    Evaluator
	problems ProblemRepo

	store *store
	queue chan queueItem

	wg sync.WaitGroup
}

func NewSubmissionSrvc(judge Evaluator, problems ProblemRepo, queueSize int) *SubmissionSrvc {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &SubmissionSrvc{
		logger:   slog.Default().With("module", "subm"),
		judge:    judge,
		problems: problems,
		store:    newStore(),
		queue:    make(chan queueItem, queueSize),
	}
}

// Submit records a new submission as QUEUED and enqueues it for the
// worker pool. It returns the fresh id without waiting for any
// processing to start.
func (s *SubmissionSrvc) Submit(ctx context.Context, code string, problemID string) (uuid.UUID, error) {
	if code == "" || problemID == "" {
		return uuid.Nil, ErrInvalidSubmission()
	}

	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to generate submission id: %w", err)
	}

	s.store.upsert(Submission{
		UUID:      id,
		ProblemID: problemID,
		Code:      code,
		State:     StateQueued,
	})
	s.queue <- queueItem{id: id, code: code, problemID: problemID}

	s.logger.Info("submission queued", "submission_id", id, "problem_id", problemID)
	return id, nil
}

// Status reports the current verdict for a submission. QUEUED and
// PROCESSING yield a placeholder verdict with no test cases; an
// errored submission surfaces its stored message as a server error.
func (s *SubmissionSrvc) Status(ctx context.Context, id uuid.UUID) (verdict.Verdict, error) {
	subm, ok := s.store.get(id)
	if !ok {
		return verdict.Verdict{}, ErrSubmissionNotFound()
	}

	switch subm.State {
	case StateQueued:
		return verdict.Verdict{Status: verdict.StatusQueued, TestCases: []verdict.TestCaseResult{}}, nil
	case StateProcessing:
		return verdict.Verdict{Status: verdict.StatusProcessing, TestCases: []verdict.TestCaseResult{}}, nil
	case StateError:
		return verdict.Verdict{}, ErrSubmissionFailed(subm.ErrorMsg)
	default:
		return *subm.Verdict, nil
	}
}
