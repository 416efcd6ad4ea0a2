package xlview

// DeltaListener is notified before and after each delta is merged.
// Implement this interface to repaint dirty regions, record history or
// drop stale deltas.
type DeltaListener interface {
	// BeforeApplyDelta is called on every listener before the delta is
	// merged. Return false to skip the delta; AfterApplyDelta is then not
	// called on any listener.
	BeforeApplyDelta(d Delta) bool

	// AfterApplyDelta is called once the delta has been merged.
	AfterApplyDelta(d Delta, cache *ViewportCache)
}
