package merge

// Config carries the merge engine's tunables, in the same
// "flag.FlagSet-friendly struct of tunables" shape the teacher's own
// differencer config uses. NodeBudget guards hostile input per spec §5;
// zero means unbounded.
type Config struct {
	// NodeBudget caps the combined node count of base+first+second. A
	// merge whose inputs exceed it fails fast with a budget error rather
	// than attempting the O(N·height) traversal.
	NodeBudget int

	// Trace, if non-nil, records per-frame enter/exit and per-step
	// decisions for post-mortem inspection. Optional; see MergeTrace.
	Trace *MergeTrace
}

// DefaultConfig returns the zero-value configuration: no node budget, no
// tracing.
func DefaultConfig() Config {
	return Config{}
}
