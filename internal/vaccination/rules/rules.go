// Package rules is the validation engine for vaccination registrations. It
// performs no I/O: callers pass a snapshot of the existing records for the
// (person, vaccine) pair and the vaccine's allowed dose set, which keeps the
// engine independently unit-testable and the atomicity concern in the store.
package rules

import (
	"fmt"
	"time"

	id "vaxcard/pkg/domain"
	dErrors "vaxcard/pkg/domain-errors"
)

// Rejection reasons carried on validation errors.
const (
	ReasonDoseNotAllowed = "dose_not_allowed"
	ReasonDuplicateDose  = "duplicate_dose"
	ReasonOutOfSequence  = "out_of_sequence"
	ReasonInvalidDate    = "invalid_date"
)

// Proposal is a candidate registration.
type Proposal struct {
	Dose      id.Dose
	AppliedAt id.Date
}

// Options tune which checks run.
type Options struct {
	// EnforceSequence requires the predecessor dose (within the allowed
	// set) to already be recorded. On by default; callers may disable it
	// per request for retroactive data entry.
	EnforceSequence bool

	// RejectFutureDates rejects application dates after Now.
	RejectFutureDates bool

	// Now anchors the future-date check. Zero means time.Now.
	Now time.Time
}

// Evaluate decides whether a proposed registration may be accepted given the
// existing dose labels recorded for the same (person, vaccine) pair. Checks
// run in a fixed order and short-circuit on the first failure:
//
//  1. the dose must be in the vaccine's allowed set
//  2. the dose must not already be recorded for the pair
//  3. with sequence enforcement, the preceding allowed dose must exist
//  4. the application date must be a valid calendar date and, when
//     configured, not in the future
//
// A nil return means the proposal is eligible for persistence.
func Evaluate(proposal Proposal, existing []id.Dose, allowed []id.Dose, opts Options) error {
	if !doseIn(proposal.Dose, allowed) {
		return dErrors.WithReason(dErrors.CodeValidation, ReasonDoseNotAllowed,
			fmt.Sprintf("dose %s is not allowed for this vaccine", proposal.Dose))
	}

	if doseIn(proposal.Dose, existing) {
		return dErrors.WithReason(dErrors.CodeValidation, ReasonDuplicateDose,
			fmt.Sprintf("dose %s is already recorded for this person and vaccine", proposal.Dose))
	}

	if opts.EnforceSequence {
		if prev, ok := predecessor(proposal.Dose, allowed); ok && !doseIn(prev, existing) {
			return dErrors.WithReason(dErrors.CodeValidation, ReasonOutOfSequence,
				fmt.Sprintf("dose %s requires %s to be recorded first", proposal.Dose, prev))
		}
	}

	if proposal.AppliedAt.IsZero() {
		return dErrors.WithReason(dErrors.CodeValidation, ReasonInvalidDate,
			"application date must be a valid calendar date")
	}
	if opts.RejectFutureDates {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		if proposal.AppliedAt.After(id.DateOf(now)) {
			return dErrors.WithReason(dErrors.CodeValidation, ReasonInvalidDate,
				"application date cannot be in the future")
		}
	}

	return nil
}

// predecessor returns the closest dose preceding d in the canonical order
// that the vaccine also allows. The first allowed dose has none.
func predecessor(d id.Dose, allowed []id.Dose) (id.Dose, bool) {
	var prev id.Dose
	found := false
	for _, candidate := range allowed {
		if candidate.Before(d) && (!found || prev.Before(candidate)) {
			prev = candidate
			found = true
		}
	}
	return prev, found
}

func doseIn(d id.Dose, set []id.Dose) bool {
	for _, candidate := range set {
		if candidate == d {
			return true
		}
	}
	return false
}
