package task

// Ledger partitions every task it tracks into exactly one of the four state
// buckets. It is owned by a simulation context (never a package-level
// global — see sim.Simulation), so that independent simulation runs never
// share mutable state.
type Ledger struct {
	buckets map[State]map[*Task]struct{}
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	l := &Ledger{buckets: make(map[State]map[*Task]struct{}, 4)}
	for _, s := range []State{Pending, InProgress, Completed, Failed} {
		l.buckets[s] = make(map[*Task]struct{})
	}
	return l
}

// Track enrolls a freshly created task into its current state's bucket.
func (l *Ledger) Track(t *Task) {
	l.buckets[t.State][t] = struct{}{}
}

// relocate atomically moves t out of whichever bucket currently holds it
// and into target, setting t.State to match. It is idempotent: relocating a
// task already in target is a no-op beyond the (redundant) state write.
func (l *Ledger) relocate(t *Task, target State) {
	for _, s := range []State{Pending, InProgress, Completed, Failed} {
		if _, ok := l.buckets[s][t]; ok {
			if s != target {
				delete(l.buckets[s], t)
				l.buckets[target][t] = struct{}{}
			}
			t.State = target
			return
		}
	}
	t.State = target
	l.buckets[target][t] = struct{}{}
}

// Progress advances t by dt seconds and relocates it to the resulting
// bucket (IN_PROGRESS or COMPLETED).
func (l *Ledger) Progress(t *Task, dt int) {
	t.Progress(dt)
	l.relocate(t, t.State)
}

// Restore relocates t back to an arbitrary state, used to undo a
// speculative Assign when the QoS gate rejects it.
func (l *Ledger) Restore(t *Task, state State) {
	l.relocate(t, state)
}

// Fail transitions t straight to FAILED (vehicle destruction path).
func (l *Ledger) Fail(t *Task) {
	l.relocate(t, Failed)
}

// Accept transitions t from PENDING to IN_PROGRESS the first time a fog
// accepts it.
func (l *Ledger) Accept(t *Task) {
	l.relocate(t, InProgress)
}

// Count returns the number of tasks currently in bucket s.
func (l *Ledger) Count(s State) int { return len(l.buckets[s]) }

// Total returns the number of tasks tracked across all buckets.
func (l *Ledger) Total() int {
	total := 0
	for _, s := range []State{Pending, InProgress, Completed, Failed} {
		total += len(l.buckets[s])
	}
	return total
}

// Snapshot returns a copy of the per-state counts.
func (l *Ledger) Snapshot() map[State]int {
	out := make(map[State]int, 4)
	for _, s := range []State{Pending, InProgress, Completed, Failed} {
		out[s] = len(l.buckets[s])
	}
	return out
}
