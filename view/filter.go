// Package view provides the pure read-only projections over a record
// snapshot: filtering, sorting, pagination and column visibility, composed
// by Table.
//
// The engines own no record data. They are recomputed synchronously from
// whatever snapshot the host passes in, so the rendered result always
// derives from record-store content plus the engines' own configuration.
package view

import (
	"strings"
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
)

// Column identifies one column of the record schema.
type Column string

// Column ids. These name record fields and derived values, never catalog
// contents.
const (
	ColName      Column = "name"
	ColRequested Column = "requestedAmount"
	ColEvaluated Column = "amountToEvaluate"
	ColCreatedAt Column = "createdAt"
	ColClosedAt  Column = "closedAt"
	ColDays      Column = "days"
	ColState     Column = "state"
	ColAgent     Column = "agent"
)

// Operator classifies how a predicate compares its operand.
type Operator int

const (
	OpSubstring Operator = iota
	OpEquals
	OpRangeInclusive
)

// Predicate is a single filter condition over one column.
//
// Predicates combine with logical AND; an inactive predicate matches
// everything and drops out of the conjunction.
type Predicate interface {
	Column() Column
	Op() Operator
	Active() bool
	Match(r clientdesk.ClientRecord) bool
}

// TextPredicate matches a case-insensitive substring against the
// concatenation of the record's name-like fields (name, surname, national
// id). Missing fields behave as empty strings.
type TextPredicate struct {
	Query string
}

func (p TextPredicate) Column() Column { return ColName }
func (p TextPredicate) Op() Operator   { return OpSubstring }
func (p TextPredicate) Active() bool   { return strings.TrimSpace(p.Query) != "" }

func (p TextPredicate) Match(r clientdesk.ClientRecord) bool {
	hay := strings.ToLower(r.Name + " " + r.Surname + " " + r.NationalID)
	return strings.Contains(hay, strings.ToLower(strings.TrimSpace(p.Query)))
}

// StatePredicate matches records whose lifecycle state equals one opaque
// catalog id. The host resolves a user-selected label to an id through the
// catalog service; the engine never compares labels, so two catalog
// entries sharing a label cannot be conflated here.
type StatePredicate struct {
	ID int

	// Set distinguishes an active filter from the zero value; catalog ids
	// are opaque and not guaranteed nonzero.
	Set bool
}

func (p StatePredicate) Column() Column { return ColState }
func (p StatePredicate) Op() Operator   { return OpEquals }
func (p StatePredicate) Active() bool   { return p.Set }

func (p StatePredicate) Match(r clientdesk.ClientRecord) bool {
	return r.State != nil && r.State.ID == p.ID
}

// AgentPredicate matches records assigned to one agent by exact id.
// Unassigned records never match. Zero means inactive.
type AgentPredicate struct {
	ID int
}

func (p AgentPredicate) Column() Column { return ColAgent }
func (p AgentPredicate) Op() Operator   { return OpEquals }
func (p AgentPredicate) Active() bool   { return p.ID != 0 }

func (p AgentPredicate) Match(r clientdesk.ClientRecord) bool {
	return r.Agent != nil && r.Agent.ID == p.ID
}

// AgentTextPredicate matches a case-insensitive substring against the
// resolved agent display name. Unassigned records never match an active
// filter.
type AgentTextPredicate struct {
	Query string
}

func (p AgentTextPredicate) Column() Column { return ColAgent }
func (p AgentTextPredicate) Op() Operator   { return OpSubstring }
func (p AgentTextPredicate) Active() bool   { return strings.TrimSpace(p.Query) != "" }

func (p AgentTextPredicate) Match(r clientdesk.ClientRecord) bool {
	if r.Agent == nil {
		return false
	}
	return strings.Contains(
		strings.ToLower(r.Agent.DisplayName()),
		strings.ToLower(strings.TrimSpace(p.Query)),
	)
}

// DateRangePredicate matches records whose target date column falls within
// an inclusive range compared at day granularity (time of day truncated).
//
// A range with only a lower bound degenerates to a single-day match. A
// range with only an upper bound is an open lower bound. Records lacking
// the target date (open records filtered by close date) never match an
// active range.
type DateRangePredicate struct {
	Col  Column // ColCreatedAt (default) or ColClosedAt
	From time.Time
	To   time.Time
}

func (p DateRangePredicate) Column() Column {
	if p.Col == "" {
		return ColCreatedAt
	}
	return p.Col
}

func (p DateRangePredicate) Op() Operator { return OpRangeInclusive }
func (p DateRangePredicate) Active() bool { return !p.From.IsZero() || !p.To.IsZero() }

func (p DateRangePredicate) Match(r clientdesk.ClientRecord) bool {
	var target time.Time
	switch p.Column() {
	case ColClosedAt:
		if r.ClosedAt == nil {
			return false
		}
		target = *r.ClosedAt
	default:
		target = r.CreatedAt
	}

	from, to := dayOrdinal(p.From), dayOrdinal(p.To)
	if !p.From.IsZero() && p.To.IsZero() {
		to = from
	}
	d := dayOrdinal(target)

	if !p.From.IsZero() && d < from {
		return false
	}
	if to != 0 && d > to {
		return false
	}
	return true
}

// dayOrdinal collapses a time to a comparable calendar day, zero for the
// zero time.
func dayOrdinal(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Filter returns the records matching every active predicate, preserving
// the input's relative order. Inactive predicates are pass-throughs, so an
// empty predicate set returns a copy of the input.
func Filter(recs []clientdesk.ClientRecord, preds []Predicate) []clientdesk.ClientRecord {
	out := make([]clientdesk.ClientRecord, 0, len(recs))
	for _, r := range recs {
		if matchAll(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func matchAll(r clientdesk.ClientRecord, preds []Predicate) bool {
	for _, p := range preds {
		if p == nil || !p.Active() {
			continue
		}
		if !p.Match(r) {
			return false
		}
	}
	return true
}
