// Package pagination implements the page-number envelope shared by the
// local store and the remote API.
package pagination

// DefaultPageSize matches the UI's grid page size.
const DefaultPageSize = 12

type Pagination struct {
	PageNum  int `form:"pageNum,default=1"`
	PageSize int `form:"pageSize,default=12" validate:"gte=1,lte=100"`
}

// Normalize clamps page number and size to usable values.
func (p Pagination) Normalize() Pagination {
	if p.PageNum < 1 {
		p.PageNum = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset returns the record offset of the first item on the page.
func (p Pagination) Offset() int {
	return (p.PageNum - 1) * p.PageSize
}

// Page is the envelope every paginated read returns.
// Invariant: Pages = ceil(Total/Size).
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	Current int   `json:"current"`
	Size    int   `json:"size"`
}

// NewPage builds an envelope for one page of records.
func NewPage[T any](records []T, total int64, p Pagination) Page[T] {
	p = p.Normalize()
	if records == nil {
		records = []T{}
	}
	return Page[T]{
		Records: records,
		Total:   total,
		Pages:   pageCount(total, p.PageSize),
		Current: p.PageNum,
		Size:    p.PageSize,
	}
}

// Empty returns an envelope with zero records, used as the soft-fail
// value for degraded reads.
func Empty[T any](p Pagination) Page[T] {
	p = p.Normalize()
	return Page[T]{
		Records: []T{},
		Total:   0,
		Pages:   0,
		Current: p.PageNum,
		Size:    p.PageSize,
	}
}

// SlicePage paginates an in-memory list the way the local store does.
func SlicePage[T any](all []T, p Pagination) Page[T] {
	p = p.Normalize()
	start := p.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + p.PageSize
	if end > len(all) {
		end = len(all)
	}
	return NewPage(all[start:end], int64(len(all)), p)
}

func pageCount(total int64, size int) int64 {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}
