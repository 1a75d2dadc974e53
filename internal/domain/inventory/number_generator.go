package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TransferNumberPrefix is the default prefix for transfer reference numbers
const TransferNumberPrefix = "T"

// NumberGenerator produces human-readable sequential reference numbers in
// the form {PREFIX}{YYMMDD}{COUNTER}. Implementations must be safe for
// concurrent use; production deployments back the counter with a database
// sequence so multiple service instances never collide.
type NumberGenerator interface {
	NextNumber(ctx context.Context, prefix string) (string, error)
}

// SequenceNumberGenerator is an in-process NumberGenerator keeping one
// monotonic counter per prefix and day behind a mutex. Suitable for tests
// and single-instance deployments.
type SequenceNumberGenerator struct {
	mu       sync.Mutex
	now      func() time.Time
	counters map[string]int64
}

// NewSequenceNumberGenerator creates an in-process number generator
func NewSequenceNumberGenerator() *SequenceNumberGenerator {
	return &SequenceNumberGenerator{
		now:      time.Now,
		counters: make(map[string]int64),
	}
}

// NextNumber returns the next reference number for the prefix
func (g *SequenceNumberGenerator) NextNumber(_ context.Context, prefix string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	day := g.now().Format("060102")
	key := prefix + day
	g.counters[key]++

	return fmt.Sprintf("%s%s%05d", prefix, day, g.counters[key]), nil
}

// Ensure SequenceNumberGenerator implements NumberGenerator
var _ NumberGenerator = (*SequenceNumberGenerator)(nil)
