package ports

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
	// MaxPageNumber keeps Offset well inside int range on 32-bit builds.
	MaxPageNumber   = 1_000_000
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Size
}

// PageResult is one page of items plus the total row count of the unpaged query.
type PageResult[T any] struct {
	Items []T
	Total int64
	Page  Page
}

func (r PageResult[T]) LastPage() int {
	size := r.Page.Normalize().Size
	if r.Total == 0 {
		return 1
	}
	return int((r.Total + int64(size) - 1) / int64(size))
}
