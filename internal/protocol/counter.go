package protocol

import "sync"

// MaxTransactionID is the largest 14-bit transaction ID.
const MaxTransactionID = 16383

// TransactionCounter hands out wrapping 14-bit transaction IDs. It is safe
// for concurrent use.
type TransactionCounter struct {
	mu   sync.Mutex
	next int
}

// NewTransactionCounter returns a counter whose first ID is start, reduced
// into the 14-bit range. Negative values count back from MaxTransactionID.
func NewTransactionCounter(start int) *TransactionCounter {
	const n = MaxTransactionID + 1
	return &TransactionCounter{next: ((start % n) + n) % n}
}

// Next returns the current ID and advances the counter.
func (c *TransactionCounter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.next
	c.next = (c.next + 1) % (MaxTransactionID + 1)
	return id
}

// Peek returns the ID the next call to Next will return.
func (c *TransactionCounter) Peek() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}
