// Package xlbudget consolidates a project budget workbook: it copies a fixed
// set of cells from every partner worksheet (named P2-..., P3-..., up to P20)
// into partner-indexed rows of one or more overview sheets, rewriting the row
// component of every relative formula reference for the move.
//
// The engine manipulates formula text only; it never evaluates formulas.
// Every consolidation produces a per-cell audit trail, and cell writes are
// batched with previous-value capture so a partially failed run can be
// rolled back.
package xlbudget
