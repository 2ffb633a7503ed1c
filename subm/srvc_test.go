package subm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/llmarena/backend/problem"
	"github.com/llmarena/backend/srvcerror"
	"github.com/llmarena/backend/verdict"
)

// fakeJudge accepts a case unless its expected output is "WRONG".
type fakeJudge struct {
	calls atomic.Int32
	err   error
}

func (f *fakeJudge) Evaluate(ctx context.Context, code, input, expected string, lim problem.Limits) (verdict.TestCaseResult, error) {
	f.calls.Add(1)
	if f.err != nil {
		return verdict.TestCaseResult{}, f.err
	}
	status := verdict.StatusAccepted
	actual := expected
	if expected == "WRONG" {
		status = verdict.StatusWrongAnswer
		actual = "something else"
	}
	return verdict.NewTestCaseResult(input, expected, actual, status), nil
}

type fakeProblems struct {
	cases     map[string][]problem.TestCase
	limitsErr error

	// incremented once per pipeline run; detects double processing
	runs atomic.Int32
}

func (f *fakeProblems) Limits(problemID string) (problem.Limits, error) {
	f.runs.Add(1)
	if f.limitsErr != nil {
		return problem.Limits{}, f.limitsErr
	}
	return problem.Limits{TimeLimit: 1, MemoryLimit: 128, Repetitions: 1, MaxFileSize: 1024}, nil
}

func (f *fakeProblems) TestCases(problemID string) ([]problem.TestCase, error) {
	return f.cases[problemID], nil
}

// waitTerminal polls Status until the submission reaches a terminal
// outcome, the way an HTTP client would.
func waitTerminal(t *testing.T, srvc *SubmissionSrvc, id uuid.UUID) (verdict.Verdict, error) {
	t.Helper()
	var v verdict.Verdict
	var verr error
	require.Eventually(t, func() bool {
		v, verr = srvc.Status(context.Background(), id)
		if verr != nil {
			srvcErr := &srvcerror.Error{}
			return errors.As(verr, &srvcErr) &&
				srvcErr.ErrorCode() == ErrCodeSubmissionFailed
		}
		return v.Status.IsTerminal()
	}, 5*time.Second, 2*time.Millisecond)
	return v, verr
}

func TestStatusIsQueuedBeforeAnyWorkerRuns(t *testing.T) {
	srvc := NewSubmissionSrvc(&fakeJudge{}, &fakeProblems{}, 0)
	// no workers started

	id, err := srvc.Submit(context.Background(), "int main(){}", "latam2023/B")
	require.NoError(t, err)

	v, err := srvc.Status(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, verdict.StatusQueued, v.Status)
	require.Empty(t, v.TestCases)
}

func TestStatusUnknownSubmission(t *testing.T) {
	srvc := NewSubmissionSrvc(&fakeJudge{}, &fakeProblems{}, 0)

	_, err := srvc.Status(context.Background(), uuid.New())
	srvcErr := &srvcerror.Error{}
	require.ErrorAs(t, err, &srvcErr)
	require.Equal(t, ErrCodeSubmissionNotFound, srvcErr.ErrorCode())
	require.Equal(t, 404, srvcErr.HttpStatusCode())
}

func TestSubmitRejectsEmptyInput(t *testing.T) {
	srvc := NewSubmissionSrvc(&fakeJudge{}, &fakeProblems{}, 0)

	_, err := srvc.Submit(context.Background(), "", "latam2023/B")
	require.Error(t, err)
	_, err = srvc.Submit(context.Background(), "int main(){}", "")
	require.Error(t, err)
}

func TestNoTestCasesFailsClosed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	problems := &fakeProblems{cases: map[string][]problem.TestCase{}}
	srvc := NewSubmissionSrvc(&fakeJudge{}, problems, 0)
	srvc.StartWorkers(ctx, 1)

	id, err := srvc.Submit(ctx, "int main(){}", "latam2023/B")
	require.NoError(t, err)

	v, verr := waitTerminal(t, srvc, id)
	require.NoError(t, verr)
	require.Equal(t, verdict.StatusOther, v.Status)
	require.NotEmpty(t, v.ErrorMsg)
	require.Empty(t, v.TestCases)
}

func TestShortCircuitOnFirstFailingCase(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	judge := &fakeJudge{}
	problems := &fakeProblems{cases: map[string][]problem.TestCase{
		"latam2023/B": {
			{Input: "1\n", Expected: "2\n"},
			{Input: "2\n", Expected: "WRONG"},
			{Input: "3\n", Expected: "6\n"},
			{Input: "4\n", Expected: "8\n"},
		},
	}}
	srvc := NewSubmissionSrvc(judge, problems, 0)
	srvc.StartWorkers(ctx, 1)

	id, err := srvc.Submit(ctx, "int main(){}", "latam2023/B")
	require.NoError(t, err)

	v, verr := waitTerminal(t, srvc, id)
	require.NoError(t, verr)
	require.Equal(t, verdict.StatusWrongAnswer, v.Status)
	require.Len(t, v.TestCases, 1)
	require.Equal(t, "2\n", v.TestCases[0].Input)
	// cases after the failing one were never sent to the judge
	require.EqualValues(t, 2, judge.calls.Load())
}

func TestAllAcceptedYieldsEmptyCaseList(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	judge := &fakeJudge{}
	problems := &fakeProblems{cases: map[string][]problem.TestCase{
		"latam2023/B": {
			{Input: "1\n", Expected: "2\n"},
			{Input: "2\n", Expected: "4\n"},
		},
	}}
	srvc := NewSubmissionSrvc(judge, problems, 0)
	srvc.StartWorkers(ctx, 1)

	id, err := srvc.Submit(ctx, "int main(){}", "latam2023/B")
	require.NoError(t, err)

	v, verr := waitTerminal(t, srvc, id)
	require.NoError(t, verr)
	require.Equal(t, verdict.StatusAccepted, v.Status)
	require.Empty(t, v.TestCases)
	require.EqualValues(t, 2, judge.calls.Load())
}

func TestJudgeFailureMarksSubmissionError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	judge := &fakeJudge{err: errors.New("timed out waiting for judge result")}
	problems := &fakeProblems{cases: map[string][]problem.TestCase{
		"latam2023/B": {{Input: "1\n", Expected: "2\n"}},
	}}
	srvc := NewSubmissionSrvc(judge, problems, 0)
	srvc.StartWorkers(ctx, 1)

	id, err := srvc.Submit(ctx, "int main(){}", "latam2023/B")
	require.NoError(t, err)

	_, verr := waitTerminal(t, srvc, id)
	srvcErr := &srvcerror.Error{}
	require.ErrorAs(t, verr, &srvcErr)
	require.Equal(t, ErrCodeSubmissionFailed, srvcErr.ErrorCode())
	require.Contains(t, srvcErr.Error(), "timed out")
}

func TestProblemRepoFailureMarksSubmissionError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	problems := &fakeProblems{limitsErr: errors.New("limits script not found")}
	srvc := NewSubmissionSrvc(&fakeJudge{}, problems, 0)
	srvc.StartWorkers(ctx, 1)

	id, err := srvc.Submit(ctx, "int main(){}", "latam2023/B")
	require.NoError(t, err)

	_, verr := waitTerminal(t, srvc, id)
	srvcErr := &srvcerror.Error{}
	require.ErrorAs(t, verr, &srvcErr)
	require.Contains(t, srvcErr.Error(), "limits script not found")
}

// A failing submission never kills its worker: the next queued item
// still gets processed by the same single-worker pool.
func TestWorkerSurvivesFailedSubmission(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	problems := &fakeProblems{cases: map[string][]problem.TestCase{
		"ok/A": {{Input: "1\n", Expected: "2\n"}},
	}}
	judge := &fakeJudge{err: errors.New("boom")}
	srvc := NewSubmissionSrvc(judge, problems, 0)
	srvc.StartWorkers(ctx, 1)

	first, err := srvc.Submit(ctx, "int main(){}", "ok/A")
	require.NoError(t, err)
	_, verr := waitTerminal(t, srvc, first)
	require.Error(t, verr) // judge errored

	judge.err = nil
	second, err := srvc.Submit(ctx, "int main(){}", "ok/A")
	require.NoError(t, err)
	v, verr := waitTerminal(t, srvc, second)
	require.NoError(t, verr)
	require.Equal(t, verdict.StatusAccepted, v.Status)
}

func TestManySubmissionsAllCompleteExactlyOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const m = 32
	const workers = 4

	problems := &fakeProblems{cases: map[string][]problem.TestCase{}}
	for i := 0; i < m; i++ {
		problems.cases[fmt.Sprintf("latam2023/%d", i)] = []problem.TestCase{
			{Input: "1\n", Expected: "2\n"},
		}
	}
	srvc := NewSubmissionSrvc(&fakeJudge{}, problems, 0)
	srvc.StartWorkers(ctx, workers)

	ids := make([]uuid.UUID, 0, m)
	for i := 0; i < m; i++ {
		id, err := srvc.Submit(ctx, "int main(){}", fmt.Sprintf("latam2023/%d", i))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	for _, id := range ids {
		v, verr := waitTerminal(t, srvc, id)
		require.NoError(t, verr)
		require.Equal(t, verdict.StatusAccepted, v.Status)
	}

	// one pipeline run per submission, no double processing
	require.EqualValues(t, m, problems.runs.Load())
}

func TestWorkersStopOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	srvc := NewSubmissionSrvc(&fakeJudge{}, &fakeProblems{}, 0)
	srvc.StartWorkers(ctx, 4)

	cancel()

	done := make(chan struct{})
	go func() {
		srvc.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not stop after cancellation")
	}
}
