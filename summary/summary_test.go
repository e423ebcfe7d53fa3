package summary

import (
	"testing"
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRecords() []clientdesk.ClientRecord {
	return []clientdesk.ClientRecord{
		{
			ID: 1, RequestedAmount: 100, EvaluatedAmount: 80, Channel: 1,
			State:     &clientdesk.StateRef{ID: 3, Label: "In review"},
			Agent:     &clientdesk.AgentRef{ID: 7, Name: "Pedro", Surname: "Soto"},
			CreatedAt: day(2026, time.March, 3),
		},
		{
			ID: 2, RequestedAmount: 200, EvaluatedAmount: 150, Channel: 2,
			State:     &clientdesk.StateRef{ID: 3, Label: "In review"},
			CreatedAt: day(2026, time.March, 10),
		},
		{
			ID: 3, RequestedAmount: 50, EvaluatedAmount: 50, Channel: 1,
			CreatedAt: day(2026, time.April, 1),
		},
	}
}

func TestByStateLabel(t *testing.T) {
	got := ByStateLabel(testRecords())

	review := got["In review"]
	if review.Count != 2 || review.Requested != 300 || review.Evaluated != 230 {
		t.Errorf("In review totals wrong: %+v", review)
	}
	unassigned := got[clientdesk.Unassigned]
	if unassigned.Count != 1 || unassigned.Requested != 50 {
		t.Errorf("stateless records should accumulate under unassigned: %+v", unassigned)
	}
}

func TestByChannel(t *testing.T) {
	got := ByChannel(testRecords())
	if got[1].Count != 2 || got[1].Requested != 150 {
		t.Errorf("channel 1 totals wrong: %+v", got[1])
	}
	if got[2].Count != 1 || got[2].Requested != 200 {
		t.Errorf("channel 2 totals wrong: %+v", got[2])
	}
}

func TestByAgent(t *testing.T) {
	got := ByAgent(testRecords())
	if got["Pedro Soto"].Count != 1 {
		t.Errorf("Pedro Soto totals wrong: %+v", got["Pedro Soto"])
	}
	if got[clientdesk.Unassigned].Count != 2 {
		t.Errorf("agentless records should accumulate under unassigned: %+v", got[clientdesk.Unassigned])
	}
}

func TestCreatedIn(t *testing.T) {
	got := CreatedIn(testRecords(), 2026, time.March)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("expected March records 1,2 in order, got %v", got)
	}
	if n := len(CreatedIn(testRecords(), 2026, time.May)); n != 0 {
		t.Errorf("expected no May records, got %d", n)
	}
}
