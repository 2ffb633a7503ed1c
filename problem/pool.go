package problem

import (
	"fmt"
	"math/rand"
)

// Listing is a catalog entry returned to clients.
type Listing struct {
	ProblemID string `json:"problem_id"`
	Name      string `json:"name"`
}

// curatedPool is the fixed set of problems offered for play. The
// catalog contract is this curated subset, not a scan of the whole
// contests directory.
var curatedPool = []string{
	"latam2020/N",
	"latam2023/B",
	"latam2023/D",
	"latam2022/D",
	"latam2020/D",
	"latam2021/K",
}

// List returns up to n randomly selected problems from the curated
// pool, with their display names.
func (r *FsRepo) List(n int) ([]Listing, error) {
	if n > len(curatedPool) {
		n = len(curatedPool)
	}
	perm := rand.Perm(len(curatedPool))

	listings := make([]Listing, 0, n)
	for _, i := range perm[:n] {
		id := curatedPool[i]
		info, err := r.Info(id)
		if err != nil {
			return nil, fmt.Errorf("read info for %s: %w", id, err)
		}
		listings = append(listings, Listing{ProblemID: id, Name: info.Name})
	}
	return listings, nil
}
