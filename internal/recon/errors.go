package recon

import "errors"

// ErrBrokenSchedule reports that the account's transaction history does not
// extend far enough to reconcile the due-date range being simulated. The
// partial result accumulated up to the abort is returned alongside this error
// so the account can be flagged for manual review.
var ErrBrokenSchedule = errors.New("recon: broken schedule")

// ErrPeriodOverrun reports that the simulation hit its iteration safety cap
// without terminating. Distinct from ErrBrokenSchedule: it signals a bug or a
// pathological schedule, not merely short history.
var ErrPeriodOverrun = errors.New("recon: period iteration cap exceeded")
