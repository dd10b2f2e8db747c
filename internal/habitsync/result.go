package habitsync

// Status tells a caller where a mutation ended up.
type Status int

const (
	// Applied means local state and the remote service agree.
	Applied Status = iota
	// AppliedLocalOnly means the change is kept locally but the remote call failed.
	AppliedLocalOnly
	// Reverted means the remote call failed and local state was rolled back.
	Reverted
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case AppliedLocalOnly:
		return "applied_local_only"
	case Reverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// Result is the outcome of one synchronization operation. Reason is set for
// AppliedLocalOnly and Reverted.
type Result struct {
	Status Status
	Reason error
}

func applied() Result {
	return Result{Status: Applied}
}

func localOnly(reason error) Result {
	return Result{Status: AppliedLocalOnly, Reason: reason}
}

func reverted(err error) Result {
	return Result{Status: Reverted, Reason: err}
}

// Synced reports whether the remote service confirmed the change.
func (r Result) Synced() bool {
	return r.Status == Applied
}
