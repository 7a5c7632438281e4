package types

// Default pagination parameters, matching the HTTP query defaults.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// Page addresses one page of a listing. The zero value normalizes to the
// first page with the default size.
type Page struct {
	Number int
	Size   int
}

// Normalize replaces out-of-range values with defaults: Number < 1 becomes 1,
// Size < 1 becomes DefaultPageSize.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = DefaultPageNumber
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	return p
}

// Offset returns the row offset for the page: (Number-1)*Size.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pagination describes a listing result in the response envelope.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination builds the envelope for a normalized page and a total row
// count. Pages is ceil(total/limit); zero rows yield zero pages.
func NewPagination(p Page, total int) Pagination {
	p = p.Normalize()
	return Pagination{
		Page:  p.Number,
		Limit: p.Size,
		Total: total,
		Pages: (total + p.Size - 1) / p.Size,
	}
}
