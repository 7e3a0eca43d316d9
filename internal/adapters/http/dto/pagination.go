package dto

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 500

// PaginationRequest represents limit/offset pagination parameters from the
// query string. Both are optional; a missing limit returns everything from
// the offset onward. The catalog is small and insertion-ordered, so offset
// pagination stays stable enough in practice.
type PaginationRequest struct {
	// Limit is the maximum number of items to return (1-500). Zero means
	// no limit.
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=500"`

	// Offset is the number of items to skip from the start of the list.
	Offset int `form:"offset" validate:"omitempty,gte=0"`
}

// GetLimit returns the limit clamped to MaxLimit. Zero means unlimited.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return 0
	}

	if p.Limit > MaxLimit {
		return MaxLimit
	}

	return p.Limit
}

// GetOffset returns the offset clamped to zero.
func (p *PaginationRequest) GetOffset() int {
	if p.Offset < 0 {
		return 0
	}

	return p.Offset
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	// Items is the array of items for this page.
	Items []T `json:"items"`

	// Total is the total number of items across all pages.
	Total int `json:"total"`

	// HasMore indicates whether there are more items after this page.
	HasMore bool `json:"hasMore"`
}

// NewPaginatedResponse slices a full result set down to the requested page.
func NewPaginatedResponse[T any](all []T, p *PaginationRequest) *PaginatedResponse[T] {
	limit := p.GetLimit()
	offset := p.GetOffset()

	if offset >= len(all) {
		return &PaginatedResponse[T]{Items: []T{}, Total: len(all)}
	}

	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return &PaginatedResponse[T]{
		Items:   all[offset:end],
		Total:   len(all),
		HasMore: end < len(all),
	}
}
