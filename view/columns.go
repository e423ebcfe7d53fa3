package view

import clientdesk "github.com/bansur/clientdesk-go"

// DefaultColumns is the standard record table schema, every column
// visible and sortable. Hosts with their own schema pass it to NewTable
// instead.
func DefaultColumns() []clientdesk.ColumnDescriptor {
	return []clientdesk.ColumnDescriptor{
		{ID: string(ColName), Label: "Name", Visible: true, Sortable: true},
		{ID: string(ColRequested), Label: "Requested amount", Visible: true, Sortable: true},
		{ID: string(ColEvaluated), Label: "Amount to evaluate", Visible: true, Sortable: true},
		{ID: string(ColCreatedAt), Label: "Created", Visible: true, Sortable: true},
		{ID: string(ColClosedAt), Label: "Closed", Visible: true, Sortable: true},
		{ID: string(ColDays), Label: "Days elapsed", Visible: true, Sortable: true},
		{ID: string(ColState), Label: "State", Visible: true, Sortable: true},
		{ID: string(ColAgent), Label: "Agent", Visible: true, Sortable: true},
	}
}

// Registry tracks column visibility independently of data. Hidden columns
// are excluded only from the rendered table; they remain fully part of the
// filter and sort model, so a hidden column can still be filtered or
// sorted by.
type Registry struct {
	cols []clientdesk.ColumnDescriptor
}

// NewRegistry copies the host-supplied column schema.
func NewRegistry(cols []clientdesk.ColumnDescriptor) *Registry {
	out := make([]clientdesk.ColumnDescriptor, len(cols))
	copy(out, cols)
	return &Registry{cols: out}
}

// Toggle flips the visibility of the given column. Unknown ids are ignored.
func (g *Registry) Toggle(id string) {
	for i := range g.cols {
		if g.cols[i].ID == id {
			g.cols[i].Visible = !g.cols[i].Visible
			return
		}
	}
}

// SetVisible sets the visibility of the given column.
func (g *Registry) SetVisible(id string, visible bool) {
	for i := range g.cols {
		if g.cols[i].ID == id {
			g.cols[i].Visible = visible
			return
		}
	}
}

// IsVisible reports whether the column is currently visible. Unknown ids
// are not visible.
func (g *Registry) IsVisible(id string) bool {
	for i := range g.cols {
		if g.cols[i].ID == id {
			return g.cols[i].Visible
		}
	}
	return false
}

// Sortable reports whether the column participates in sorting.
func (g *Registry) Sortable(id string) bool {
	for i := range g.cols {
		if g.cols[i].ID == id {
			return g.cols[i].Sortable
		}
	}
	return false
}

// Visible returns the visible columns in schema order.
func (g *Registry) Visible() []clientdesk.ColumnDescriptor {
	out := make([]clientdesk.ColumnDescriptor, 0, len(g.cols))
	for _, c := range g.cols {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// All returns every column descriptor in schema order.
func (g *Registry) All() []clientdesk.ColumnDescriptor {
	out := make([]clientdesk.ColumnDescriptor, len(g.cols))
	copy(out, g.cols)
	return out
}
