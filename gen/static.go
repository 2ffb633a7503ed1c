package gen

import (
	"context"
	"fmt"
)

// StaticProvider serves canned solutions from a fixed map. Useful
// for offline play and tests where no model endpoint is available.
type StaticProvider struct {
	solutions map[string]Solution
}

func NewStaticProvider(solutions map[string]Solution) *StaticProvider {
	return &StaticProvider{solutions: solutions}
}

func (p *StaticProvider) Generate(ctx context.Context, task Task) (Solution, error) {
	sol, ok := p.solutions[task.ProblemID]
	if !ok {
		return Solution{}, fmt.Errorf("no canned solution for problem %s", task.ProblemID)
	}
	return sol, nil
}
