package lifecycle

import (
	"time"

	"github.com/spec-kit/site-safety-service/internal/domain"
)

// CompletedDateLayout is the date-only format stamped on closure.
const CompletedDateLayout = "2006-01-02"

// StatusPatch is the partial record update produced by a transition.
// TouchCompleted reports whether the patch writes completed_date at all;
// when it does, a nil CompletedDate clears the stored value.
type StatusPatch struct {
	Status         domain.RecordStatus
	CompletedDate  *string
	TouchCompleted bool
}

// ComputeTransition derives the patch for moving a record from current to
// next status. Missing current status reads as open. Only two transitions
// carry a side effect:
//
//	open -> in_progress clears completed_date (handles dates set out of band)
//	in_progress -> closed stamps completed_date with today's date
//
// Reopening (in_progress -> open) deliberately leaves completed_date
// untouched, and moves out of closed are plain status overwrites.
func ComputeTransition(current, next domain.RecordStatus, now time.Time) StatusPatch {
	current = domain.NormalizeStatus(current)
	patch := StatusPatch{Status: next}

	switch {
	case current == domain.StatusOpen && next == domain.StatusInProgress:
		patch.TouchCompleted = true
	case current == domain.StatusInProgress && next == domain.StatusClosed:
		stamp := now.Format(CompletedDateLayout)
		patch.CompletedDate = &stamp
		patch.TouchCompleted = true
	}
	return patch
}
