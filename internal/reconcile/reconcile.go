// Package reconcile decides whether the project path list must be rewritten.
package reconcile

// Result classifies a reconciliation decision.
type Result string

const (
	// ResultCommit means Paths must be written to the project.
	ResultCommit Result = "commit"
	// ResultPending means the resolver could not tell yet; nothing is written.
	ResultPending Result = "pending"
	// ResultEmpty means the candidate list is empty; the project is never cleared.
	ResultEmpty Result = "empty"
	// ResultUnchanged means the project already has exactly the candidate list.
	ResultUnchanged Result = "unchanged"
)

// Results lists every Result value.
var Results = []Result{ResultCommit, ResultPending, ResultEmpty, ResultUnchanged}

// Decision is the outcome of Reconcile.
type Decision struct {
	Result Result
	// Paths is the candidate list; set for every result except ResultPending.
	Paths []string
}

// Commit reports whether the decision requires a write.
func (d Decision) Commit() bool {
	return d.Result == ResultCommit
}

// Reconcile computes first ++ middle ++ last and compares it with current.
// resolved is false when the middle section could not be determined.
func Reconcile(first, middle, last []string, resolved bool, current []string) Decision {
	if !resolved {
		return Decision{Result: ResultPending}
	}

	candidate := make([]string, 0, len(first)+len(middle)+len(last))
	candidate = append(candidate, first...)
	candidate = append(candidate, middle...)
	candidate = append(candidate, last...)

	if len(candidate) == 0 {
		return Decision{Result: ResultEmpty, Paths: candidate}
	}
	if Equal(candidate, current) {
		return Decision{Result: ResultUnchanged, Paths: candidate}
	}
	return Decision{Result: ResultCommit, Paths: candidate}
}

// Equal reports element-wise equality.
func Equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
