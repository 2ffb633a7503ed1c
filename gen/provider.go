// Package gen generates candidate C++ solutions for problems and
// plays them through the submission API. Providers are a strategy
// interface; callers inject the one they want.
package gen

import "context"

// Task is everything a provider needs to attempt a problem.
type Task struct {
	ProblemID   string
	Statement   string
	TimeLimit   float64 // seconds
	MemoryLimit float64 // MB
}

// Solution is a generated submission candidate.
type Solution struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// Provider produces a solution for a task. Implementations are
// interchangeable: an LLM-backed provider, a canned offline one.
type Provider interface {
	Generate(ctx context.Context, task Task) (Solution, error)
}
