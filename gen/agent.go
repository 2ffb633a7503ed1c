package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/llmarena/backend/verdict"
)

// Agent generates a solution for a task and plays it through the
// submission API: submit with exponential-backoff retry, then poll
// the verdict until it is terminal.
type Agent struct {
	provider  Provider
	serverURL string
	httpc     *http.Client
	logger    *slog.Logger

	submitMaxRetries uint64
	retryInterval    time.Duration
	pollInterval     time.Duration
	maxPollAttempts  int
}

func NewAgent(provider Provider, serverURL string) *Agent {
	return &Agent{
		provider:         provider,
		serverURL:        serverURL,
		httpc:            &http.Client{Timeout: 30 * time.Second},
		logger:           slog.Default().With("module", "agent"),
		submitMaxRetries: 4,
		retryInterval:    2 * time.Second,
		pollInterval:     2 * time.Second,
		maxPollAttempts:  150,
	}
}

// Run returns the final verdict for the generated solution. Giving
// up on transport (backend unreachable after all retries, or the
// verdict never turning terminal) yields an OTHER verdict with an
// explanatory message rather than an error.
func (a *Agent) Run(ctx context.Context, task Task) (verdict.Verdict, error) {
	sol, err := a.provider.Generate(ctx, task)
	if err != nil {
		return verdict.Verdict{}, fmt.Errorf("generate solution: %w", err)
	}
	a.logger.Info("generated solution",
		"problem_id", task.ProblemID, "explanation", sol.Explanation)

	submissionID, err := a.submitWithRetry(ctx, sol.Code, task.ProblemID)
	if err != nil {
		a.logger.Error("submit failed after retries", "error", err)
		return verdict.Verdict{
			Status:    verdict.StatusOther,
			TestCases: []verdict.TestCaseResult{},
			ErrorMsg:  fmt.Sprintf("failed to submit solution: %v", err),
		}, nil
	}
	a.logger.Info("submission accepted", "submission_id", submissionID)

	return a.waitForVerdict(ctx, submissionID)
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	ErrMsg string          `json:"message"`
}

func (a *Agent) submitWithRetry(ctx context.Context, code, problemID string) (string, error) {
	var submissionID string

	submit := func() error {
		id, err := a.submitOnce(ctx, code, problemID)
		if err != nil {
			a.logger.Warn("submit attempt failed", "error", err)
			return err
		}
		submissionID = id
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = a.retryInterval
	bo := backoff.WithContext(
		backoff.WithMaxRetries(expo, a.submitMaxRetries), ctx)
	if err := backoff.Retry(submit, bo); err != nil {
		return "", err
	}
	return submissionID, nil
}

func (a *Agent) submitOnce(ctx context.Context, code, problemID string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"code":       code,
		"problem_id": problemID,
	})
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("marshal submit request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.serverURL+"/api/submit", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("build submit request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("post submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return "", backoff.Permanent(fmt.Errorf("submission rejected with status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("submit returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	var data struct {
		SubmissionID string `json:"submission_id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", fmt.Errorf("decode submit response data: %w", err)
	}
	if data.SubmissionID == "" {
		return "", fmt.Errorf("submit response carries no submission id")
	}
	return data.SubmissionID, nil
}

func (a *Agent) waitForVerdict(ctx context.Context, submissionID string) (verdict.Verdict, error) {
	for attempt := 0; attempt < a.maxPollAttempts; attempt++ {
		v, done, err := a.pollVerdict(ctx, submissionID)
		if err != nil {
			return verdict.Verdict{}, err
		}
		if done {
			return v, nil
		}

		select {
		case <-ctx.Done():
			return verdict.Verdict{}, ctx.Err()
		case <-time.After(a.pollInterval):
		}
	}
	return verdict.Verdict{
		Status:    verdict.StatusOther,
		TestCases: []verdict.TestCaseResult{},
		ErrorMsg:  "timed out waiting for submission verdict",
	}, nil
}

func (a *Agent) pollVerdict(ctx context.Context, submissionID string) (verdict.Verdict, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.serverURL+"/api/submit/"+submissionID, nil)
	if err != nil {
		return verdict.Verdict{}, false, fmt.Errorf("build status request: %w", err)
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		return verdict.Verdict{}, false, fmt.Errorf("poll status: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return verdict.Verdict{}, false, fmt.Errorf("decode status response: %w", err)
	}

	// a stored ERROR record comes back as an error envelope; report
	// it as an OTHER verdict instead of failing the agent run
	if env.Status == "error" {
		return verdict.Verdict{
			Status:    verdict.StatusOther,
			TestCases: []verdict.TestCaseResult{},
			ErrorMsg:  env.ErrMsg,
		}, true, nil
	}

	var v verdict.Verdict
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return verdict.Verdict{}, false, fmt.Errorf("decode verdict: %w", err)
	}
	return v, v.Status.IsTerminal(), nil
}
