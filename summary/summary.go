// Package summary computes grouped amount totals over a record snapshot.
package summary

import (
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
)

// Totals aggregates one group of records.
type Totals struct {
	Count     int
	Requested float64
	Evaluated float64
}

func (t *Totals) add(r clientdesk.ClientRecord) {
	t.Count++
	t.Requested += r.RequestedAmount
	t.Evaluated += r.EvaluatedAmount
}

// ByStateLabel groups totals by lifecycle state label. Records without a
// state accumulate under the unassigned label.
func ByStateLabel(recs []clientdesk.ClientRecord) map[string]Totals {
	out := make(map[string]Totals)
	for _, r := range recs {
		t := out[r.StateLabel()]
		t.add(r)
		out[r.StateLabel()] = t
	}
	return out
}

// ByChannel groups totals by channel reference.
func ByChannel(recs []clientdesk.ClientRecord) map[int]Totals {
	out := make(map[int]Totals)
	for _, r := range recs {
		t := out[r.Channel]
		t.add(r)
		out[r.Channel] = t
	}
	return out
}

// ByAgent groups totals by assigned-agent display name. Unassigned
// records accumulate under the unassigned label.
func ByAgent(recs []clientdesk.ClientRecord) map[string]Totals {
	out := make(map[string]Totals)
	for _, r := range recs {
		t := out[r.AgentName()]
		t.add(r)
		out[r.AgentName()] = t
	}
	return out
}

// CreatedIn returns the records created in the given calendar month,
// preserving order.
func CreatedIn(recs []clientdesk.ClientRecord, year int, month time.Month) []clientdesk.ClientRecord {
	var out []clientdesk.ClientRecord
	for _, r := range recs {
		y, m, _ := r.CreatedAt.Date()
		if y == year && m == month {
			out = append(out, r)
		}
	}
	return out
}
