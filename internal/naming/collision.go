package naming

import "sync"

// ClaimTracker records which source file claimed each destination path during
// a run. Copies overwrite silently, so the engine uses it to flag the second
// source that lands on an already-written destination (for instance "a"
// marked binary and a real "a.bin" next to it). All methods are
// goroutine-safe.
type ClaimTracker struct {
	mu     sync.Mutex
	owners map[string]string // destination path -> source path that owns it
}

// NewClaimTracker creates a ready-to-use tracker.
func NewClaimTracker() *ClaimTracker {
	return &ClaimTracker{owners: make(map[string]string)}
}

// Claim registers source as the writer of dest. If another source already
// claimed dest, that source is returned with clash=true and ownership moves
// to the new source (the later copy wins on disk).
func (ct *ClaimTracker) Claim(source, dest string) (previous string, clash bool) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	owner, exists := ct.owners[dest]
	ct.owners[dest] = source
	if !exists || owner == source {
		return "", false
	}
	return owner, true
}

// Len returns the number of distinct destinations claimed so far.
func (ct *ClaimTracker) Len() int {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return len(ct.owners)
}
