// Package pagination converts page based list requests into limit/offset
// queries and wraps a page of results with its totals.
package pagination

// Request is a page number based list request as it arrives on the query string.
type Request struct {
	PageNumber int `query:"page_number" json:"page_number"`
	PageSize   int `query:"page_size"   json:"page_size"`
}

// Normalize replaces missing or out of range values. Page numbers start at 1.
func (r *Request) Normalize(opts ...Option) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if r.PageNumber <= 0 {
		r.PageNumber = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = o.DefaultPageSize
	}
	if r.PageSize > o.MaxPageSize {
		r.PageSize = o.MaxPageSize
	}
}

// Offset returns how many items precede the requested page.
func (r *Request) Offset() int {
	return (r.PageNumber - 1) * r.PageSize
}

// Limit returns the page size.
func (r *Request) Limit() int {
	return r.PageSize
}

// Response is one page of items together with the totals of the whole set.
type Response[T any] struct {
	PageNumber  int   `json:"page_number"`
	PageSize    int   `json:"page_size"`
	PageCount   int   `json:"page_count"`
	TotalCount  int64 `json:"total_count"`
	PageContent []T   `json:"page_content"`
}

// NewResponse builds the response for req. req must be normalized.
// A nil items slice is rendered as an empty list.
func NewResponse[T any](items []T, totalCount int64, req Request) Response[T] {
	size := int64(req.PageSize)
	pageCount := totalCount / size
	if totalCount%size > 0 {
		pageCount++
	}
	if items == nil {
		items = []T{}
	}

	return Response[T]{
		PageNumber:  req.PageNumber,
		PageSize:    req.PageSize,
		PageCount:   int(pageCount),
		TotalCount:  totalCount,
		PageContent: items,
	}
}

// Map converts the page content while keeping the totals.
func Map[T, U any](resp Response[T], fn func(T) U) Response[U] {
	content := make([]U, 0, len(resp.PageContent))
	for _, item := range resp.PageContent {
		content = append(content, fn(item))
	}

	return Response[U]{
		PageNumber:  resp.PageNumber,
		PageSize:    resp.PageSize,
		PageCount:   resp.PageCount,
		TotalCount:  resp.TotalCount,
		PageContent: content,
	}
}
