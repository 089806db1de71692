package usecase

import (
	"errors"
	"sync"

	"notes-auth/internal/domain"
)

// errSuperseded marks a response that resolved after a newer request for the
// same (email, purpose) was issued. It is expected and non-actionable: the
// stale response is simply not applied.
var errSuperseded = errors.New("response superseded by a newer request")

type fenceKey struct {
	email   string
	purpose domain.OTPPurpose
}

// fence is a monotonic request-sequence guard. A request captures a sequence
// number at issue time; its response is applied only if that number is still
// the highest issued for the (email, purpose) pair when it resolves.
type fence struct {
	mu   sync.Mutex
	seqs map[fenceKey]uint64
}

func newFence() *fence {
	return &fence{seqs: make(map[fenceKey]uint64)}
}

// issue supersedes any outstanding request for the key and returns the new
// sequence number.
func (f *fence) issue(key fenceKey) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seqs[key]++
	return f.seqs[key]
}

// observe returns the current sequence without superseding anything; confirm
// operations capture it so a concurrent resend fences them off.
func (f *fence) observe(key fenceKey) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seqs[key]
}

// current reports whether seq is still the highest issued for the key.
func (f *fence) current(key fenceKey, seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seqs[key] == seq
}

// bumpAll invalidates every in-flight response; logout uses it so a stale
// confirmation cannot resurrect a session.
func (f *fence) bumpAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.seqs {
		f.seqs[key]++
	}
}
