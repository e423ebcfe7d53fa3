package view

import (
	"sort"
	"sync"
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
)

// DefaultPageSize is the page size used when the host does not set one.
const DefaultPageSize = 10

// Table composes the filter, sort and pagination engines with the column
// registry. It holds only view configuration — active predicates, sort
// state, current page — never record data; Render projects whatever
// snapshot the host supplies.
type Table struct {
	mu       sync.Mutex
	registry *Registry
	preds    map[Column]Predicate
	sortCol  Column
	sortDir  Direction
	page     int
	pageSize int
	now      func() time.Time
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithPageSize sets the fixed page size.
func WithPageSize(n int) TableOption {
	return func(t *Table) {
		if n > 0 {
			t.pageSize = n
		}
	}
}

// WithTableClock overrides the time source used for derived day counts.
// Intended for tests.
func WithTableClock(now func() time.Time) TableOption {
	return func(t *Table) { t.now = now }
}

// NewTable creates a table over the host-supplied column schema.
func NewTable(cols []clientdesk.ColumnDescriptor, opts ...TableOption) *Table {
	t := &Table{
		registry: NewRegistry(cols),
		preds:    make(map[Column]Predicate),
		page:     1,
		pageSize: DefaultPageSize,
		now:      time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Columns exposes the column visibility registry.
func (t *Table) Columns() *Registry { return t.registry }

// SetPredicate installs or replaces the predicate for its column. An
// inactive predicate (empty value) removes the column's filter instead.
// Any predicate change resets the current page to 1.
func (t *Table) SetPredicate(p Predicate) {
	if p == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if p.Active() {
		t.preds[p.Column()] = p
	} else {
		delete(t.preds, p.Column())
	}
	t.page = 1
}

// ClearPredicate removes the filter on the given column and resets the
// page to 1.
func (t *Table) ClearPredicate(col Column) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.preds, col)
	t.page = 1
}

// Predicates returns the active predicates in stable column order.
func (t *Table) Predicates() []Predicate {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.predicatesLocked()
}

func (t *Table) predicatesLocked() []Predicate {
	cols := make([]string, 0, len(t.preds))
	for c := range t.preds {
		cols = append(cols, string(c))
	}
	sort.Strings(cols)
	out := make([]Predicate, 0, len(cols))
	for _, c := range cols {
		out = append(out, t.preds[Column(c)])
	}
	return out
}

// CycleSort advances the sort state of the given column: a column not
// currently sorted starts ascending, then descending, then none.
// Non-sortable columns are ignored. Any sort change resets the page to 1.
func (t *Table) CycleSort(col Column) {
	if !t.registry.Sortable(string(col)) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sortCol != col {
		t.sortCol = col
		t.sortDir = Ascending
	} else {
		t.sortDir = t.sortDir.Next()
		if t.sortDir == None {
			t.sortCol = ""
		}
	}
	t.page = 1
}

// SetSort sets an explicit sort state, resetting the page to 1.
func (t *Table) SetSort(col Column, dir Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if dir == None {
		t.sortCol, t.sortDir = "", None
	} else {
		t.sortCol, t.sortDir = col, dir
	}
	t.page = 1
}

// Sort returns the active sort column and direction.
func (t *Table) Sort() (Column, Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sortCol, t.sortDir
}

// SetPage moves to the given 1-based page. Out-of-range values are
// clamped at the next Render.
func (t *Table) SetPage(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n < 1 {
		n = 1
	}
	t.page = n
}

// NextPage advances one page.
func (t *Table) NextPage() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page++
}

// PrevPage moves back one page, never below 1.
func (t *Table) PrevPage() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.page > 1 {
		t.page--
	}
}

// SetPageSize changes the fixed page size. The current page is clamped
// into the new range at the next Render.
func (t *Table) SetPageSize(n int) {
	if n < 1 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pageSize = n
}

// Render projects a record snapshot through filter, sort and pagination.
// The clamped page number becomes the table's current page, so a shrunk
// result set settles on its last page rather than an empty one.
func (t *Table) Render(recs []clientdesk.ClientRecord) Page {
	t.mu.Lock()
	defer t.mu.Unlock()

	filtered := Filter(recs, t.predicatesLocked())
	ordered := Sort(filtered, t.sortCol, t.sortDir, t.now)
	page := Paginate(ordered, t.page, t.pageSize)
	t.page = page.Number
	return page
}
