package xlbudget

import (
	"fmt"
	"log/slog"
)

// BatchStatus tracks a batch through its lifecycle.
type BatchStatus int

const (
	BatchPending BatchStatus = iota
	BatchExecuting
	BatchCompleted
	BatchPartiallyFailed
	BatchRolledBack
)

// String formats the status for logs and reports.
func (s BatchStatus) String() string {
	switch s {
	case BatchPending:
		return "pending"
	case BatchExecuting:
		return "executing"
	case BatchCompleted:
		return "completed"
	case BatchPartiallyFailed:
		return "partially-failed"
	case BatchRolledBack:
		return "rolled-back"
	}
	return fmt.Sprintf("BatchStatus(%d)", int(s))
}

// UpdateOp is one cell write queued in a batch. Prev is captured from the
// live document immediately before the write and is only meaningful when
// PrevCaptured is true; the applied ops form the rollback log.
type UpdateOp struct {
	Sheet        string
	Cell         string
	Value        CellValue
	Prev         CellValue
	PrevCaptured bool
	Applied      bool
	Err          error
}

// Batch collects cell updates and executes them against a document in
// insertion order. One failed write does not abort the batch: per-cell
// independence is the point, one bad partner cell must not block the other
// nineteen. A Batch is single-use and not safe for concurrent use.
type Batch struct {
	ops    []*UpdateOp
	status BatchStatus
	log    *slog.Logger
}

// NewBatch creates an empty batch. A nil logger falls back to slog.Default.
func NewBatch(logger *slog.Logger) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{status: BatchPending, log: logger}
}

// Add queues a write. The target coordinate is validated before queueing;
// nothing else is checked until Execute.
func (b *Batch) Add(sheet, cell string, v CellValue) error {
	if b.status != BatchPending {
		return fmt.Errorf("batch is %s, cannot add operations", b.status)
	}
	if _, err := ParseCellRef(cell); err != nil {
		return fmt.Errorf("target cell: %w", err)
	}
	b.ops = append(b.ops, &UpdateOp{Sheet: sheet, Cell: cell, Value: v})
	return nil
}

// Execute applies all queued operations in insertion order. For each one it
// captures the cell's previous value, then writes the new value. Failures
// are recorded on the op and execution continues with the next. The final
// status is BatchCompleted only when every operation applied.
func (b *Batch) Execute(doc Document) BatchStatus {
	b.status = BatchExecuting
	failures := 0
	for _, op := range b.ops {
		prev, err := doc.GetCell(op.Sheet, op.Cell)
		if err != nil {
			// Without the prior value the write could not be rolled
			// back, so the cell is skipped entirely.
			op.Err = fmt.Errorf("capture previous value: %w", err)
			failures++
			b.log.Warn("batch write skipped", "sheet", op.Sheet, "cell", op.Cell, "error", err)
			continue
		}
		op.Prev = prev
		op.PrevCaptured = true

		if err := doc.SetCell(op.Sheet, op.Cell, op.Value); err != nil {
			op.Err = err
			failures++
			b.log.Warn("batch write failed", "sheet", op.Sheet, "cell", op.Cell, "error", err)
			continue
		}
		op.Applied = true
		b.log.Debug("batch write applied", "sheet", op.Sheet, "cell", op.Cell, "value", op.Value.Value)
	}

	if failures == 0 {
		b.status = BatchCompleted
	} else {
		b.status = BatchPartiallyFailed
	}
	return b.status
}

// Rollback restores the previous value of every applied operation, walking
// the log in reverse insertion order. It is best-effort: a cell that fails
// to restore is reported but does not stop the rest of the rollback.
func (b *Batch) Rollback(doc Document) []error {
	var errs []error
	for i := len(b.ops) - 1; i >= 0; i-- {
		op := b.ops[i]
		if !op.Applied {
			continue
		}
		if err := doc.SetCell(op.Sheet, op.Cell, op.Prev); err != nil {
			errs = append(errs, fmt.Errorf("restore %s!%s: %w", op.Sheet, op.Cell, err))
			b.log.Warn("rollback failed for cell", "sheet", op.Sheet, "cell", op.Cell, "error", err)
			continue
		}
		op.Applied = false
	}
	b.status = BatchRolledBack
	return errs
}

// Ops exposes the operation log, in insertion order.
func (b *Batch) Ops() []*UpdateOp { return b.ops }

// Status returns the batch's current lifecycle state.
func (b *Batch) Status() BatchStatus { return b.status }

// Failures counts operations that did not apply.
func (b *Batch) Failures() int {
	n := 0
	for _, op := range b.ops {
		if op.Err != nil {
			n++
		}
	}
	return n
}
