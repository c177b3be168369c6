package mocks

import (
	"sync"

	"github.com/mcoot/bowlscore/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing. Queued results
// are returned first; once the queue is exhausted, String returns sequential
// values so generated IDs stay unique.
type MockRandom struct {
	mu sync.Mutex

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	generated int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued result, or the next sequential string of
// the given length drawn from alphabet
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stringIndex < len(r.StringResults) {
		result := r.StringResults[r.stringIndex]
		r.stringIndex++
		return result
	}

	r.generated++
	return sequential(r.generated, length, alphabet)
}

// sequential renders n in base len(alphabet), left padded to length
func sequential(n, length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	base := len(alphabet)
	digits := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		digits[i] = alphabet[n%base]
		n /= base
	}
	return string(digits)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StringResults = append(r.StringResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StringResults = nil
	r.stringIndex = 0
	r.generated = 0
}
