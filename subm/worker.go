package subm

import (
	"context"
	"fmt"

	"github.com/llmarena/backend/verdict"
)

const DefaultWorkerCount = 8

// StartWorkers launches n long-lived workers sharing the FIFO queue.
// Workers stop at their next blocking wait once ctx is canceled;
// items still queued at that point are dropped.
func (s *SubmissionSrvc) StartWorkers(ctx context.Context, n int) {
	if n <= 0 {
		n = DefaultWorkerCount
	}
	for i := 0; i < n; i++ {
		s.wg.Add(1)
		go s.workerLoop(ctx, i)
	}
	s.logger.Info("worker pool started", "workers", n)
}

// Wait blocks until every worker has unwound its in-flight work.
func (s *SubmissionSrvc) Wait() {
	s.wg.Wait()
}

// workerLoop processes one queued submission at a time. A failing
// pipeline run marks that submission ERROR and never terminates the
// loop.
func (s *SubmissionSrvc) workerLoop(ctx context.Context, workerID int) {
	defer s.wg.Done()
	logger := s.logger.With("worker_id", workerID)
	logger.Info("worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopped")
			return
		case it := <-s.queue:
			logger.Info("processing submission", "submission_id", it.id)
			if err := s.evaluate(ctx, it); err != nil {
				logger.Error("submission failed",
					"submission_id", it.id, "error", err)
				s.store.upsert(Submission{
					UUID:      it.id,
					ProblemID: it.problemID,
					Code:      it.code,
					State:     StateError,
					ErrorMsg:  err.Error(),
				})
			}
		}
	}
}

// evaluate is the evaluation pipeline for one submission: load the
// problem's limits and test cases, run cases in order against the
// judge, short-circuit on the first non-accepted result.
func (s *SubmissionSrvc) evaluate(ctx context.Context, it queueItem) error {
	s.store.upsert(Submission{
		UUID:      it.id,
		ProblemID: it.problemID,
		Code:      it.code,
		State:     StateProcessing,
	})

	lim, err := s.problems.Limits(it.problemID)
	if err != nil {
		return fmt.Errorf("read limits for %s: %w", it.problemID, err)
	}
	cases, err := s.problems.TestCases(it.problemID)
	if err != nil {
		return fmt.Errorf("read test cases for %s: %w", it.problemID, err)
	}

	// A problem with no test cases cannot be judged accepted by
	// default; fail closed.
	if len(cases) == 0 {
		s.complete(it, verdict.Verdict{
			Status:    verdict.StatusOther,
			TestCases: []verdict.TestCaseResult{},
			ErrorMsg:  "no test cases found",
		})
		return nil
	}

	for i, tc := range cases {
		res, err := s.judge.Evaluate(ctx, it.code, tc.Input, tc.Expected, lim)
		if err != nil {
			return fmt.Errorf("evaluate test case %d: %w", i+1, err)
		}
		if res.Status != verdict.StatusAccepted {
			s.complete(it, verdict.Verdict{
				Status:    res.Status,
				TestCases: []verdict.TestCaseResult{res},
			})
			return nil
		}
	}

	s.complete(it, verdict.Verdict{
		Status:    verdict.StatusAccepted,
		TestCases: []verdict.TestCaseResult{},
	})
	return nil
}

func (s *SubmissionSrvc) complete(it queueItem, v verdict.Verdict) {
	s.store.upsert(Submission{
		UUID:      it.id,
		ProblemID: it.problemID,
		Code:      it.code,
		State:     StateCompleted,
		Verdict:   &v,
	})
	s.logger.Info("submission completed",
		"submission_id", it.id, "verdict", v.Status)
}
