package view

import (
	"cmp"
	"slices"
	"strings"
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
)

// Direction is a sort direction.
type Direction int

const (
	None Direction = iota
	Ascending
	Descending
)

// Next returns the direction after one more activation of the same
// column: ascending, then descending, then none again.
func (d Direction) Next() Direction {
	switch d {
	case Ascending:
		return Descending
	case Descending:
		return None
	default:
		return Ascending
	}
}

// Sort returns a new slice ordered by the given column and direction.
//
// The sort is stable: rows with equal keys keep the input's relative
// order, in both directions, so the visual result is deterministic across
// re-renders with unchanged input. Direction None (or an unknown column)
// returns the input order unchanged.
func Sort(recs []clientdesk.ClientRecord, col Column, dir Direction, now func() time.Time) []clientdesk.ClientRecord {
	out := make([]clientdesk.ClientRecord, len(recs))
	copy(out, recs)

	if dir == None {
		return out
	}
	compare := compareFor(col, now)
	if compare == nil {
		return out
	}

	slices.SortStableFunc(out, func(a, b clientdesk.ClientRecord) int {
		c := compare(a, b)
		if dir == Descending {
			return -c
		}
		return c
	})
	return out
}

// compareFor returns the ascending comparator for a column, nil for
// columns with no defined ordering.
func compareFor(col Column, now func() time.Time) func(a, b clientdesk.ClientRecord) int {
	switch col {
	case ColName:
		return func(a, b clientdesk.ClientRecord) int {
			return strings.Compare(
				strings.ToLower(a.DisplayName()),
				strings.ToLower(b.DisplayName()),
			)
		}
	case ColRequested:
		return func(a, b clientdesk.ClientRecord) int {
			return cmp.Compare(a.RequestedAmount, b.RequestedAmount)
		}
	case ColEvaluated:
		return func(a, b clientdesk.ClientRecord) int {
			return cmp.Compare(a.EvaluatedAmount, b.EvaluatedAmount)
		}
	case ColCreatedAt:
		return func(a, b clientdesk.ClientRecord) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case ColClosedAt:
		// Open records sort before closed ones ascending.
		return func(a, b clientdesk.ClientRecord) int {
			return closeTime(a).Compare(closeTime(b))
		}
	case ColDays:
		return func(a, b clientdesk.ClientRecord) int {
			n := now()
			return cmp.Compare(a.DaysElapsed(n), b.DaysElapsed(n))
		}
	case ColState:
		return func(a, b clientdesk.ClientRecord) int {
			return strings.Compare(
				strings.ToLower(a.StateLabel()),
				strings.ToLower(b.StateLabel()),
			)
		}
	case ColAgent:
		return func(a, b clientdesk.ClientRecord) int {
			return strings.Compare(
				strings.ToLower(a.AgentName()),
				strings.ToLower(b.AgentName()),
			)
		}
	}
	return nil
}

func closeTime(r clientdesk.ClientRecord) time.Time {
	if r.ClosedAt == nil {
		return time.Time{}
	}
	return *r.ClosedAt
}
