package view

import (
	"testing"

	clientdesk "github.com/bansur/clientdesk-go"
)

func makeRecords(n int) []clientdesk.ClientRecord {
	out := make([]clientdesk.ClientRecord, n)
	for i := range out {
		out[i] = clientdesk.ClientRecord{ID: i + 1}
	}
	return out
}

func TestPaginate_FullAndPartialPages(t *testing.T) {
	rows := makeRecords(25)

	p1 := Paginate(rows, 1, 10)
	if len(p1.Rows) != 10 || p1.Rows[0].ID != 1 || p1.Rows[9].ID != 10 {
		t.Errorf("page 1 wrong: %v", ids(p1.Rows))
	}
	if p1.TotalRows != 25 || p1.TotalPages != 3 {
		t.Errorf("expected 25 rows over 3 pages, got %d/%d", p1.TotalRows, p1.TotalPages)
	}
	if p1.HasPrev || !p1.HasNext {
		t.Error("page 1 of 3 should have next but no prev")
	}

	p3 := Paginate(rows, 3, 10)
	if len(p3.Rows) != 5 || p3.Rows[0].ID != 21 {
		t.Errorf("last page should hold the 5 remaining rows, got %v", ids(p3.Rows))
	}
	if !p3.HasPrev || p3.HasNext {
		t.Error("last page should have prev but no next")
	}
}

func TestPaginate_ConcatenationReproducesSequence(t *testing.T) {
	rows := makeRecords(25)
	var all []int
	for n := 1; n <= 3; n++ {
		all = append(all, ids(Paginate(rows, n, 10).Rows)...)
	}
	if !equalIDs(all, ids(rows)) {
		t.Errorf("pages must partition the sequence without gaps or duplicates, got %v", all)
	}
}

func TestPaginate_ClampsOutOfRangePage(t *testing.T) {
	rows := makeRecords(12)

	p := Paginate(rows, 9, 10)
	if p.Number != 2 {
		t.Errorf("page 9 of 2 should clamp to 2, got %d", p.Number)
	}
	if len(p.Rows) != 2 {
		t.Errorf("clamped page should hold the final rows, got %v", ids(p.Rows))
	}

	p = Paginate(rows, 0, 10)
	if p.Number != 1 {
		t.Errorf("page 0 should clamp to 1, got %d", p.Number)
	}
}

func TestPaginate_EmptySequence(t *testing.T) {
	p := Paginate(nil, 4, 10)
	if p.Number != 1 || len(p.Rows) != 0 || p.TotalPages != 1 {
		t.Errorf("empty input should yield page 1 of 1 with no rows, got %+v", p)
	}
	if p.HasPrev || p.HasNext {
		t.Error("empty page has no neighbors")
	}
}

func TestPaginate_ExactMultiple(t *testing.T) {
	p := Paginate(makeRecords(20), 2, 10)
	if p.TotalPages != 2 {
		t.Errorf("20 rows at size 10 is exactly 2 pages, got %d", p.TotalPages)
	}
	if p.HasNext {
		t.Error("final exact page must not report a next page")
	}
}
