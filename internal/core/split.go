package core

import (
	"fmt"
	"math"
)

// SplitMismatchError reports unequal split amounts that do not sum to the
// expense total within one cent.
type SplitMismatchError struct {
	Want float64
	Got  float64
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("split amounts sum to %.2f, expense total is %.2f (off by %.2f)",
		e.Got, e.Want, Round2(e.Want-e.Got))
}

// PercentageMismatchError reports percentages that do not sum to 100 within
// the 0.1 tolerance.
type PercentageMismatchError struct {
	Got float64
}

func (e *PercentageMismatchError) Error() string {
	return fmt.Sprintf("percentages sum to %.2f%%, must sum to 100%%", e.Got)
}

// ErrSplitCountMismatch is returned when per-participant inputs do not line
// up one-to-one with the participant list.
var ErrSplitCountMismatch = fmt.Errorf("split inputs must match participant count")

// EqualSplit divides total evenly among participants. Every participant but
// the last receives the rounded base share; the last absorbs the accumulated
// rounding remainder so the splits always sum exactly to total. "Last" is the
// input order, so callers wanting fairness across repeated splits should
// rotate the participant order themselves.
func EqualSplit(total float64, participantIDs []string) ([]Split, error) {
	n := len(participantIDs)
	if n == 0 {
		return nil, ErrNoParticipants
	}

	base := Round2(total / float64(n))
	splits := make([]Split, n)
	for i, id := range participantIDs {
		amount := base
		if i == n-1 {
			amount = Round2(total - base*float64(n-1))
		}
		splits[i] = Split{ParticipantID: id, Amount: amount}
	}
	return splits, nil
}

// UnequalSplit uses caller-supplied explicit amounts, one per participant.
// The amounts must sum to total within one cent; no redistribution is done,
// the caller's amounts are used as-is rounded to cents.
func UnequalSplit(total float64, participantIDs []string, amounts []float64) ([]Split, error) {
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}
	if len(amounts) != len(participantIDs) {
		return nil, ErrSplitCountMismatch
	}

	var sum float64
	for _, a := range amounts {
		sum += a
	}
	if math.Abs(sum-total) > centEpsilon {
		return nil, &SplitMismatchError{Want: total, Got: Round2(sum)}
	}

	splits := make([]Split, len(participantIDs))
	for i, id := range participantIDs {
		splits[i] = Split{ParticipantID: id, Amount: Round2(amounts[i])}
	}
	return splits, nil
}

// PercentageSplit divides total by caller-supplied percentages, one per
// participant, which must sum to 100 within 0.1. As with EqualSplit, the last
// participant absorbs the rounding remainder to keep the sum exact.
func PercentageSplit(total float64, participantIDs []string, percentages []float64) ([]Split, error) {
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}
	if len(percentages) != len(participantIDs) {
		return nil, ErrSplitCountMismatch
	}

	var sum float64
	for _, p := range percentages {
		sum += p
	}
	if math.Abs(sum-100) > 0.1 {
		return nil, &PercentageMismatchError{Got: Round2(sum)}
	}

	splits := make([]Split, len(participantIDs))
	var allocated float64
	for i, id := range participantIDs {
		var amount float64
		if i == len(participantIDs)-1 {
			amount = Round2(total - allocated)
		} else {
			amount = Round2(percentages[i] / 100 * total)
			allocated += amount
		}
		splits[i] = Split{ParticipantID: id, Amount: amount, Percentage: percentages[i]}
	}
	return splits, nil
}
