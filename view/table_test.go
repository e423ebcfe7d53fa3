package view

import (
	"testing"

	clientdesk "github.com/bansur/clientdesk-go"
)

func newTestTable() *Table {
	return NewTable(DefaultColumns(), WithPageSize(10), WithTableClock(fixedNow))
}

func TestTable_RenderComposesFilterSortPaginate(t *testing.T) {
	tbl := newTestTable()
	tbl.SetPredicate(TextPredicate{Query: "an"})
	tbl.CycleSort(ColName) // ascending

	page := tbl.Render(sampleRecords())
	// "an" matches Ana, Juan, Mariana; ascending by display name.
	if !equalIDs(ids(page.Rows), []int{1, 2, 3}) {
		t.Errorf("expected Ana, Juan, Mariana, got %v", ids(page.Rows))
	}
	if page.TotalRows != 3 {
		t.Errorf("expected 3 total rows, got %d", page.TotalRows)
	}
}

func TestTable_PredicateChangeResetsPage(t *testing.T) {
	tbl := newTestTable()
	tbl.Render(makeRecords(35))
	tbl.SetPage(3)

	tbl.SetPredicate(TextPredicate{Query: "x"})
	page := tbl.Render(makeRecords(35))
	if page.Number != 1 {
		t.Errorf("installing a predicate must reset to page 1, got %d", page.Number)
	}

	tbl.SetPage(2)
	tbl.ClearPredicate(ColName)
	page = tbl.Render(makeRecords(35))
	if page.Number != 1 {
		t.Errorf("clearing a predicate must reset to page 1, got %d", page.Number)
	}
}

func TestTable_FilteredPaginationShape(t *testing.T) {
	// 25 records, page size 10, filter matching 12: two pages of 10+2,
	// and applying the filter while on page 3 lands back on page 1.
	recs := make([]clientdesk.ClientRecord, 25)
	for i := range recs {
		recs[i] = clientdesk.ClientRecord{ID: i + 1, Name: "other"}
		if i < 12 {
			recs[i].Name = "match"
		}
	}

	tbl := newTestTable()
	tbl.SetPage(3)
	if p := tbl.Render(recs); p.Number != 3 {
		t.Fatalf("expected to start on page 3, got %d", p.Number)
	}

	tbl.SetPredicate(TextPredicate{Query: "match"})
	p := tbl.Render(recs)
	if p.Number != 1 {
		t.Errorf("applying a filter must reset to page 1, got %d", p.Number)
	}
	if p.TotalRows != 12 || p.TotalPages != 2 || len(p.Rows) != 10 {
		t.Errorf("expected 12 rows over 2 pages with 10 on the first, got %+v", p)
	}
	tbl.NextPage()
	if p := tbl.Render(recs); len(p.Rows) != 2 || !p.HasPrev || p.HasNext {
		t.Errorf("second page should hold the 2 remaining rows, got %+v", p)
	}
}

func TestTable_InactivePredicateRemovesFilter(t *testing.T) {
	tbl := newTestTable()
	tbl.SetPredicate(TextPredicate{Query: "an"})
	if len(tbl.Predicates()) != 1 {
		t.Fatalf("expected 1 active predicate, got %d", len(tbl.Predicates()))
	}
	tbl.SetPredicate(TextPredicate{Query: ""})
	if len(tbl.Predicates()) != 0 {
		t.Errorf("an empty predicate should clear the column's filter")
	}
}

func TestTable_SortChangeResetsPage(t *testing.T) {
	tbl := newTestTable()
	tbl.Render(makeRecords(35))
	tbl.SetPage(3)

	tbl.CycleSort(ColRequested)
	page := tbl.Render(makeRecords(35))
	if page.Number != 1 {
		t.Errorf("sort change must reset to page 1, got %d", page.Number)
	}
}

func TestTable_CycleSortTransitions(t *testing.T) {
	tbl := newTestTable()

	tbl.CycleSort(ColName)
	if col, dir := tbl.Sort(); col != ColName || dir != Ascending {
		t.Errorf("first activation should sort ascending, got %v/%v", col, dir)
	}
	tbl.CycleSort(ColName)
	if _, dir := tbl.Sort(); dir != Descending {
		t.Errorf("second activation should sort descending, got %v", dir)
	}
	tbl.CycleSort(ColName)
	if col, dir := tbl.Sort(); dir != None || col != "" {
		t.Errorf("third activation should clear the sort, got %v/%v", col, dir)
	}

	// Switching column restarts at ascending.
	tbl.CycleSort(ColName)
	tbl.CycleSort(ColRequested)
	if col, dir := tbl.Sort(); col != ColRequested || dir != Ascending {
		t.Errorf("new column should start ascending, got %v/%v", col, dir)
	}
}

func TestTable_CycleSortIgnoresNonSortableColumn(t *testing.T) {
	cols := DefaultColumns()
	for i := range cols {
		if cols[i].ID == string(ColAgent) {
			cols[i].Sortable = false
		}
	}
	tbl := NewTable(cols)

	tbl.CycleSort(ColAgent)
	if col, dir := tbl.Sort(); col != "" || dir != None {
		t.Errorf("non-sortable column must not change sort state, got %v/%v", col, dir)
	}
}

func TestTable_HiddenColumnStillFiltersAndSorts(t *testing.T) {
	tbl := newTestTable()
	tbl.Columns().SetVisible(string(ColState), false)

	if tbl.Columns().IsVisible(string(ColState)) {
		t.Fatal("state column should be hidden")
	}

	// Hidden is a rendering property only; the filter and sort model keeps
	// the column.
	tbl.SetPredicate(StatePredicate{ID: 3, Set: true})
	tbl.CycleSort(ColState)
	page := tbl.Render(sampleRecords())
	if !equalIDs(ids(page.Rows), []int{1, 4}) {
		t.Errorf("hidden column must still filter, got %v", ids(page.Rows))
	}
	if col, dir := tbl.Sort(); col != ColState || dir != Ascending {
		t.Errorf("hidden column must still sort, got %v/%v", col, dir)
	}
}

func TestTable_RenderPersistsClampedPage(t *testing.T) {
	tbl := newTestTable()
	tbl.Render(makeRecords(35))
	tbl.SetPage(4)
	tbl.Render(makeRecords(35)) // lands on page 4 of 4

	// The set shrinks; the next render clamps and the table settles there.
	page := tbl.Render(makeRecords(12))
	if page.Number != 2 {
		t.Errorf("expected clamp to page 2, got %d", page.Number)
	}
	page = tbl.Render(makeRecords(12))
	if page.Number != 2 {
		t.Errorf("clamped page should persist, got %d", page.Number)
	}
}

func TestTable_PageNavigation(t *testing.T) {
	tbl := newTestTable()
	rows := makeRecords(25)

	tbl.NextPage()
	if p := tbl.Render(rows); p.Number != 2 {
		t.Errorf("expected page 2, got %d", p.Number)
	}
	tbl.PrevPage()
	if p := tbl.Render(rows); p.Number != 1 {
		t.Errorf("expected page 1, got %d", p.Number)
	}
	tbl.PrevPage()
	if p := tbl.Render(rows); p.Number != 1 {
		t.Errorf("prev from page 1 must stay at 1, got %d", p.Number)
	}
}

func TestTable_SetPageSize(t *testing.T) {
	tbl := newTestTable()
	tbl.SetPageSize(5)
	p := tbl.Render(makeRecords(12))
	if p.Size != 5 || p.TotalPages != 3 {
		t.Errorf("expected size 5 over 3 pages, got %d/%d", p.Size, p.TotalPages)
	}

	tbl.SetPageSize(0) // ignored
	p = tbl.Render(makeRecords(12))
	if p.Size != 5 {
		t.Errorf("non-positive size must be ignored, got %d", p.Size)
	}
}

func TestRegistry_ToggleAndUnknownIDs(t *testing.T) {
	g := NewRegistry(DefaultColumns())

	g.Toggle(string(ColAgent))
	if g.IsVisible(string(ColAgent)) {
		t.Error("toggle should hide a visible column")
	}
	g.Toggle(string(ColAgent))
	if !g.IsVisible(string(ColAgent)) {
		t.Error("toggle should restore visibility")
	}

	g.Toggle("bogus") // no-op
	if g.IsVisible("bogus") {
		t.Error("unknown columns are never visible")
	}
	if len(g.Visible()) != len(DefaultColumns()) {
		t.Errorf("expected all columns visible, got %d", len(g.Visible()))
	}
}
