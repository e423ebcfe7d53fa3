package view

import clientdesk "github.com/bansur/clientdesk-go"

// Page is one fixed-size window over an ordered sequence.
type Page struct {
	Rows       []clientdesk.ClientRecord
	Number     int
	Size       int
	TotalRows  int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// Paginate returns the 1-based page of the given size over rows.
//
// The page number is clamped into [1, TotalPages] so a shrinking result
// set can never leave the caller stranded on an out-of-range empty page.
// An empty sequence yields page 1 of 0 rows.
func Paginate(rows []clientdesk.ClientRecord, page, size int) Page {
	if size < 1 {
		size = 1
	}

	total := len(rows)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	lo := (page - 1) * size
	hi := lo + size
	if hi > total {
		hi = total
	}
	if lo > total {
		lo = total
	}

	return Page{
		Rows:       rows[lo:hi],
		Number:     page,
		Size:       size,
		TotalRows:  total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page*size < total,
	}
}
