// Package ids allocates order identities.
package ids

import (
	"sync/atomic"

	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

// Generator hands out strictly positive, strictly increasing order ids.
// Implementations must be safe for concurrent use.
type Generator interface {
	Next() core.OrderID
}

// Sequence is an atomic counter. The first id returned is base+1.
type Sequence struct {
	n atomic.Int64
}

// NewSequence returns a Sequence starting after base. A negative base is
// treated as zero.
func NewSequence(base int64) *Sequence {
	s := &Sequence{}
	if base > 0 {
		s.n.Store(base)
	}
	return s
}

var _ Generator = (*Sequence)(nil)

func (s *Sequence) Next() core.OrderID {
	return core.OrderID(s.n.Add(1))
}

// Last returns the most recently issued id, or the base if none was issued.
func (s *Sequence) Last() core.OrderID {
	return core.OrderID(s.n.Load())
}
