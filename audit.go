package xlbudget

import (
	"fmt"
	"strings"
)

// AuditStatus is the per-cell outcome of a consolidation.
type AuditStatus int

const (
	AuditSuccess AuditStatus = iota
	AuditFailure
)

// String formats the status as "OK" or "FAIL".
func (s AuditStatus) String() string {
	if s == AuditSuccess {
		return "OK"
	}
	return "FAIL"
}

// AuditRecord traces one mapped cell through the whole pipeline: where it
// came from, where it went, what its formula looked like before and after
// rewriting, and whether the write succeeded. Records are emitted for failed
// cells too, so a bad mapping can be diagnosed without re-running.
type AuditRecord struct {
	Partner          Partner
	SourceCell       string
	DestCell         string
	OriginalFormula  string
	RewrittenFormula string
	FinalValue       string
	Status           AuditStatus
	Reason           string
	// Anomalies lists rewritten references whose row fell outside the
	// sheet bounds. The write still happens; these are reported, not
	// corrected.
	Anomalies []string
}

// String formats the record as a single report line.
func (r AuditRecord) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s -> %s", r.Status, r.Partner, r.SourceCell, r.DestCell)
	if r.OriginalFormula != "" {
		fmt.Fprintf(&b, " formula %q -> %q", r.OriginalFormula, r.RewrittenFormula)
	} else {
		fmt.Fprintf(&b, " value %q", r.FinalValue)
	}
	if r.Reason != "" {
		fmt.Fprintf(&b, " (%s)", r.Reason)
	}
	if len(r.Anomalies) > 0 {
		fmt.Fprintf(&b, " [out-of-range refs: %s]", strings.Join(r.Anomalies, ", "))
	}
	return b.String()
}

// Report is the full audit trail of one consolidation run.
type Report struct {
	Overview    string
	Records     []AuditRecord
	BatchStatus BatchStatus
	RolledBack  bool
}

// Success is true only if every mapped cell was applied.
func (r *Report) Success() bool {
	for _, rec := range r.Records {
		if rec.Status != AuditSuccess {
			return false
		}
	}
	return len(r.Records) > 0
}

// Failed returns only the records that did not succeed.
func (r *Report) Failed() []AuditRecord {
	var failed []AuditRecord
	for _, rec := range r.Records {
		if rec.Status != AuditSuccess {
			failed = append(failed, rec)
		}
	}
	return failed
}

// Anomalous returns records whose rewritten formulas reference rows outside
// the sheet bounds.
func (r *Report) Anomalous() []AuditRecord {
	var out []AuditRecord
	for _, rec := range r.Records {
		if len(rec.Anomalies) > 0 {
			out = append(out, rec)
		}
	}
	return out
}

// String renders the report as a plain-text block, one line per record plus
// a summary line.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "overview %q: %d cells, batch %s\n", r.Overview, len(r.Records), r.BatchStatus)
	for _, rec := range r.Records {
		b.WriteString("  ")
		b.WriteString(rec.String())
		b.WriteByte('\n')
	}
	failed := len(r.Failed())
	if r.RolledBack {
		fmt.Fprintf(&b, "%d failed, applied cells rolled back\n", failed)
	} else if failed > 0 {
		fmt.Fprintf(&b, "%d failed\n", failed)
	}
	return b.String()
}
