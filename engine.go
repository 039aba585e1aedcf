package xlbudget

import (
	"errors"
	"fmt"
)

// ErrSheetNotFound reports a missing overview sheet. It is a precondition
// failure: nothing has been written when it is returned.
var ErrSheetNotFound = errors.New("sheet not found")

// Engine runs the cross-sheet consolidation: it discovers partner sheets,
// extracts their mapped cells, rewrites formula row references for each
// partner's destination row, and applies everything to the overview sheet
// as one audited batch. An Engine holds no document state; construct one per
// configuration and pass the document to Consolidate.
type Engine struct {
	opts *Options
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Engine{opts: o}
}

// Consolidate runs a full consolidation of the named overview sheet and is
// equivalent to NewEngine(opts...).Consolidate(doc, overviewSheet).
func Consolidate(doc Document, overviewSheet string, opts ...Option) (*Report, error) {
	return NewEngine(opts...).Consolidate(doc, overviewSheet)
}

// overview looks up the spec registered for a sheet name.
func (e *Engine) overview(sheet string) (OverviewSpec, bool) {
	for _, o := range e.opts.overviews {
		if o.Sheet == sheet {
			return o, true
		}
	}
	return OverviewSpec{}, false
}

// Consolidate updates one overview sheet from every partner sheet in the
// document. Precondition failures (unknown overview sheet, no partner
// sheets, missing configuration) return an error before any write. Per-cell
// failures never abort the run; they are recorded on the report, and
// Report.Success reflects whether every mapped cell made it.
func (e *Engine) Consolidate(doc Document, overviewSheet string) (*Report, error) {
	log := e.opts.logger

	if e.opts.table == nil {
		return nil, fmt.Errorf("no mapping table configured")
	}
	spec, ok := e.overview(overviewSheet)
	if !ok {
		return nil, fmt.Errorf("overview sheet %q not configured", overviewSheet)
	}
	rowFn, err := spec.rowFunc()
	if err != nil {
		return nil, err
	}

	if !hasSheet(doc, overviewSheet) {
		return nil, fmt.Errorf("overview %w: %q", ErrSheetNotFound, overviewSheet)
	}
	partners := DiscoverPartners(doc)
	if len(partners) == 0 {
		return nil, ErrNoPartners
	}
	log.Info("consolidating overview", "sheet", overviewSheet, "partners", len(partners), "mappings", e.opts.table.Len(), "dry_run", e.opts.dryRun)

	batch := NewBatch(log)
	var records []AuditRecord
	var opIndex []int // records[i] -> batch op index, -1 when nothing was queued

	for _, p := range partners {
		destRow, err := rowFn(p.Ordinal)
		if err != nil {
			// The whole partner row is unplaceable; fail each of its
			// mapped cells so the report stays one record per cell.
			for _, entry := range e.opts.table.entries {
				records = append(records, AuditRecord{
					Partner:    p,
					SourceCell: entry.src.Name(),
					Status:     AuditFailure,
					Reason:     err.Error(),
				})
				opIndex = append(opIndex, -1)
			}
			continue
		}

		for _, ec := range extractPartner(doc, p, e.opts.table, destRow) {
			rec := AuditRecord{
				Partner:    p,
				SourceCell: ec.SourceCell,
				DestCell:   ec.DestCell,
			}
			if ec.Err != nil {
				rec.Status = AuditFailure
				rec.Reason = ec.Err.Error()
				records = append(records, rec)
				opIndex = append(opIndex, -1)
				log.Warn("extraction failed", "partner", p.String(), "cell", ec.SourceCell, "error", ec.Err)
				continue
			}

			newVal := ec.Value
			if ec.Value.IsFormula {
				rec.OriginalFormula = ec.Value.Value
				rw := RewriteRows(ec.Value.Value, ec.RowDelta)
				rec.RewrittenFormula = rw.Formula
				rec.Anomalies = rw.Anomalies
				newVal = CellValue{Value: rw.Formula, IsFormula: true}
				if len(rw.Anomalies) > 0 {
					log.Warn("rewrite produced out-of-range references", "partner", p.String(), "cell", ec.SourceCell, "refs", rw.Anomalies)
				}
			}

			if err := batch.Add(overviewSheet, ec.DestCell, newVal); err != nil {
				rec.Status = AuditFailure
				rec.Reason = err.Error()
				records = append(records, rec)
				opIndex = append(opIndex, -1)
				continue
			}
			records = append(records, rec)
			opIndex = append(opIndex, len(batch.Ops())-1)
		}
	}

	target := doc
	if e.opts.dryRun {
		target = &dryRunDocument{doc}
	}
	status := batch.Execute(target)

	ops := batch.Ops()
	for i := range records {
		idx := opIndex[i]
		if idx < 0 {
			continue
		}
		op := ops[idx]
		if op.Err != nil {
			records[i].Status = AuditFailure
			records[i].Reason = op.Err.Error()
			continue
		}
		records[i].FinalValue = op.Value.Value
	}

	rolledBack := false
	if status == BatchPartiallyFailed && e.opts.rollbackOnFailure {
		if errs := batch.Rollback(target); len(errs) > 0 {
			log.Warn("rollback incomplete", "errors", len(errs))
		}
		rolledBack = true
		status = batch.Status()
	}

	report := &Report{
		Overview:    overviewSheet,
		Records:     records,
		BatchStatus: status,
		RolledBack:  rolledBack,
	}
	log.Info("consolidation finished", "sheet", overviewSheet, "cells", len(records), "failed", len(report.Failed()), "status", status.String())
	return report, nil
}

func hasSheet(doc Document, name string) bool {
	for _, s := range doc.SheetNames() {
		if s == name {
			return true
		}
	}
	return false
}

// dryRunDocument passes reads through and swallows writes so a consolidation
// can be audited without mutating the workbook.
type dryRunDocument struct {
	Document
}

func (d *dryRunDocument) SetCell(sheet, cell string, v CellValue) error { return nil }

func (d *dryRunDocument) Save() error { return nil }
