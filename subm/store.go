package subm

import (
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// store maps submission ids to their current full record. Every
// mutation is a whole-record upsert, so concurrent readers observe
// either the complete old record or the complete new one.
type store struct {
	subms *xsync.MapOf[uuid.UUID, Submission]
}

func newStore() *store {
	return &store{
		subms: xsync.NewMapOf[uuid.UUID, Submission](),
	}
}

func (s *store) upsert(subm Submission) {
	s.subms.Store(subm.UUID, subm)
}

func (s *store) get(id uuid.UUID) (Submission, bool) {
	return s.subms.Load(id)
}
