package clientdesk

import (
	"strings"
	"time"
)

// Unassigned is the rendering fallback for absent lifecycle state and
// absent agent references.
const Unassigned = "unassigned"

// RoleID is an integer classification of a user determining which data
// and actions are available to them.
type RoleID int

// User represents the authenticated user persisted alongside the session token.
type User struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Role    RoleID `json:"role"`
}

// DisplayName returns the user's full name.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// Session is the authenticated identity and role of the current user.
// A session is valid only while now < ExpiresAt.
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the session has not yet expired at the given time.
func (s Session) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// CatalogEntry is one entry of the lifecycle catalog. The set of ids and
// labels is deployment-specific and treated as opaque data.
type CatalogEntry struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// StateRef is a record's resolved reference into the lifecycle catalog.
type StateRef struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// AgentRef identifies the agent a record is assigned to.
type AgentRef struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// DisplayName returns the agent's full name.
func (a AgentRef) DisplayName() string {
	return strings.TrimSpace(a.Name + " " + a.Surname)
}

// Initials returns the agent's uppercase initials for badge rendering,
// "N/A" when both name parts are empty.
func (a AgentRef) Initials() string {
	var b strings.Builder
	if a.Name != "" {
		b.WriteString(strings.ToUpper(a.Name[:1]))
	}
	if a.Surname != "" {
		b.WriteString(strings.ToUpper(a.Surname[:1]))
	}
	if b.Len() == 0 {
		return "N/A"
	}
	return b.String()
}

// ClientRecord is a single business entity flowing through the system.
//
// State and Agent may be absent, meaning "unassigned". CreatedAt is always
// set by the remote service; ClosedAt is present only once the record has
// reached a terminal lifecycle state, and is never before CreatedAt.
type ClientRecord struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Surname         string     `json:"surname"`
	NationalID      string     `json:"nationalId"`
	Company         string     `json:"company,omitempty"`
	Commune         string     `json:"commune,omitempty"`
	RequestedAmount float64    `json:"requestedAmount"`
	EvaluatedAmount float64    `json:"amountToEvaluate"`
	Channel         int        `json:"channel,omitempty"`
	State           *StateRef  `json:"state,omitempty"`
	Agent           *AgentRef  `json:"agent,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ClosedAt        *time.Time `json:"closedAt,omitempty"`
}

// DisplayName returns the record's full person name.
func (r ClientRecord) DisplayName() string {
	return strings.TrimSpace(r.Name + " " + r.Surname)
}

// StateLabel returns the lifecycle state label, or Unassigned when the
// record has no state reference.
func (r ClientRecord) StateLabel() string {
	if r.State == nil {
		return Unassigned
	}
	return r.State.Label
}

// AgentName returns the assigned agent's display name, or Unassigned when
// the record has no agent reference.
func (r ClientRecord) AgentName() string {
	if r.Agent == nil {
		return Unassigned
	}
	return r.Agent.DisplayName()
}

// Closed reports whether the record has reached a terminal lifecycle state.
func (r ClientRecord) Closed() bool {
	return r.ClosedAt != nil
}

// DaysElapsed returns the whole-day difference between ClosedAt (or now,
// for records that are still open) and CreatedAt. Partial days are
// discarded; the result is never negative for well-formed records.
func (r ClientRecord) DaysElapsed(now time.Time) int {
	end := now
	if r.ClosedAt != nil {
		end = *r.ClosedAt
	}
	d := end.Sub(r.CreatedAt)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// ListQuery holds the optional server-side constraints of a collection
// fetch. Zero values mean unconstrained.
type ListQuery struct {
	// StateIDs restricts the fetch to records in the given lifecycle states.
	StateIDs []int

	// AgentID restricts the fetch to records assigned to one agent.
	// Zero means all agents.
	AgentID int
}

// ColumnDescriptor is a rendering-facing projection of the column schema,
// independent of filter and sort state.
type ColumnDescriptor struct {
	ID       string
	Label    string
	Visible  bool
	Sortable bool
}
