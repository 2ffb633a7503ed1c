package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const systemPrompt = `You are an expert competitive programmer.
Generate a C++ solution for the given problem.
The solution should be efficient and handle all edge cases.
The explanation should be one short paragraph.

Return a valid JSON object with exactly two fields:
{"code": "<raw C++ code, no markdown>", "explanation": "<short explanation>"}

The code requires the following things:
- Do not comment the code, just write the code.
- Do not use any markdown formatting or code blocks.
- The code should be ready to compile and run.
- Use the standard library #include<bits/stdc++.h>

Time limit: %g seconds
Memory limit: %g MB`

// OpenAIProvider calls an OpenAI-compatible chat completions
// endpoint and parses the JSON object the model was told to return.
type OpenAIProvider struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: 5 * time.Minute},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, task Task) (Solution, error) {
	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemPrompt, task.TimeLimit, task.MemoryLimit)},
			{Role: "user", Content: "Problem statement:\n" + task.Statement},
		},
	}
	req.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(req)
	if err != nil {
		return Solution{}, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Solution{}, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpc.Do(httpReq)
	if err != nil {
		return Solution{}, fmt.Errorf("call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Solution{}, fmt.Errorf("completion endpoint returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return Solution{}, fmt.Errorf("decode completion response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return Solution{}, fmt.Errorf("completion response has no choices")
	}

	var sol Solution
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &sol); err != nil {
		return Solution{}, fmt.Errorf("parse generated solution: %w", err)
	}
	if sol.Code == "" {
		return Solution{}, fmt.Errorf("generated solution has empty code")
	}
	return sol, nil
}
