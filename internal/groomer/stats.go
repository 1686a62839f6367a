package groomer

// RunStats tracks aggregate counters across a run.
type RunStats struct {
	Files       int // records built and handed to a FileFunc
	Failed      int // listing, classification or FileFunc errors
	Skipped     int // records the policy flagged as skipped
	Clean       int
	Dangerous   int
	Unknown     int
	Binary      int
	Copied      int
	CopyFailed  int
	CopiedBytes int64
	Collisions  int // copies that overwrote an earlier copy of this run
}

// Marked returns how many files ended with a non-clean marking.
func (s *RunStats) Marked() int {
	return s.Files - s.Clean
}
