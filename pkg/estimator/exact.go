package estimator

// exactTracker counts occurrences per combined key until the number of
// distinct keys exceeds its limit, then drops the map for good. A nil map
// is the terminal approximate state; keeping the state in the map itself
// avoids reads of a cleared map behind a stale flag.
type exactTracker struct {
	freq  map[uint64]uint64
	limit int
}

func newExactTracker(limit int) *exactTracker {
	return &exactTracker{
		freq:  make(map[uint64]uint64),
		limit: limit,
	}
}

// record counts one occurrence of key. Once the distinct-key count
// exceeds the limit the map is released and record becomes a no-op.
func (t *exactTracker) record(key uint64) {
	if t.freq == nil {
		return
	}
	t.freq[key]++
	if len(t.freq) > t.limit {
		t.freq = nil
	}
}

// count returns the distinct-key count and true while tracking, or false
// after the tracker has given up.
func (t *exactTracker) count() (int, bool) {
	if t.freq == nil {
		return 0, false
	}
	return len(t.freq), true
}

func (t *exactTracker) reset() {
	t.freq = make(map[uint64]uint64)
}
