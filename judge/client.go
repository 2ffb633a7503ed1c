// Package judge talks to a judge0-compatible execution service. One
// Evaluate call covers one test case: submit, poll until a terminal
// status, classify.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/llmarena/backend/problem"
	"github.com/llmarena/backend/verdict"
)

// ErrPollTimeout is returned when the judge never reports a terminal
// status within the attempt ceiling. The caller cannot produce a
// verdict in that case, so it propagates instead of degrading.
var ErrPollTimeout = errors.New("timed out waiting for judge result")

const (
	// C++ (GCC) on judge0.
	cppLanguageID = 54

	// Status id the judge never emits; used when a poll response
	// itself fails, which classifies as an internal judge error.
	statusInternalError = 13

	memoryCapKB = 512 * 1000
)

type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger

	pollInterval    time.Duration
	maxPollAttempts int
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:         baseURL,
		httpc:           &http.Client{Timeout: 30 * time.Second},
		logger:          slog.Default().With("module", "judge"),
		pollInterval:    500 * time.Millisecond,
		maxPollAttempts: 200,
	}
}

type submitRequest struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	CpuTimeLimit   int    `json:"cpu_time_limit"`
	MemoryLimit    int    `json:"memory_limit"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type submitResponse struct {
	Token string `json:"token"`
}

type pollResponse struct {
	Status struct {
		ID int `json:"id"`
	} `json:"status"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// terminal judge0 status ids; everything below 3 means still queued
// or running.
func isTerminal(statusID int) bool {
	return statusID >= 3 && statusID <= 14
}

// Evaluate runs one test case to completion on the judge. A failed
// submit call yields an OTHER-classified result rather than an error
// so the pipeline can short-circuit it like any failing case. Only
// an exhausted poll ceiling is an error: no verdict exists then.
func (c *Client) Evaluate(ctx context.Context, code, input, expected string, lim problem.Limits) (verdict.TestCaseResult, error) {
	code = sanitize(code)
	input = sanitize(input)
	expected = sanitize(expected)

	memoryKB := int(lim.MemoryLimit) * 1000
	if memoryKB > memoryCapKB {
		memoryKB = memoryCapKB
	}

	token, err := c.submit(ctx, submitRequest{
		SourceCode:     code,
		LanguageID:     cppLanguageID,
		CpuTimeLimit:   int(lim.TimeLimit),
		MemoryLimit:    memoryKB,
		Stdin:          input,
		ExpectedOutput: expected,
	})
	if err != nil {
		c.logger.Error("judge submit failed", "error", err)
		return verdict.NewTestCaseResult(input, expected, "", verdict.StatusOther), nil
	}

	result, err := c.waitForResult(ctx, token)
	if err != nil {
		return verdict.TestCaseResult{}, err
	}

	status := verdict.FromJudgeStatus(result.Status.ID)
	return verdict.NewTestCaseResult(input, expected, result.Stdout, status), nil
}

func (c *Client) submit(ctx context.Context, sub submitRequest) (string, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("marshal judge submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/submissions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build judge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("post judge submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("judge submission rejected with status %d", resp.StatusCode)
	}

	var sr submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decode judge submission response: %w", err)
	}
	return sr.Token, nil
}

// waitForResult polls the judge at a fixed interval until the first
// terminal status or the attempt ceiling. A failed poll request maps
// to the judge's internal-error status, which is terminal.
func (c *Client) waitForResult(ctx context.Context, token string) (pollResponse, error) {
	for attempt := 0; attempt < c.maxPollAttempts; attempt++ {
		result, err := c.pollOnce(ctx, token)
		if err != nil {
			return pollResponse{}, err
		}
		if isTerminal(result.Status.ID) {
			return result, nil
		}

		select {
		case <-ctx.Done():
			return pollResponse{}, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
	return pollResponse{}, ErrPollTimeout
}

func (c *Client) pollOnce(ctx context.Context, token string) (pollResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/submissions/"+token, nil)
	if err != nil {
		return pollResponse{}, fmt.Errorf("build judge poll request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return pollResponse{}, fmt.Errorf("poll judge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("judge poll returned non-200", "status", resp.StatusCode, "token", token)
		var failed pollResponse
		failed.Status.ID = statusInternalError
		return failed, nil
	}

	var result pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return pollResponse{}, fmt.Errorf("decode judge poll response: %w", err)
	}
	return result, nil
}
