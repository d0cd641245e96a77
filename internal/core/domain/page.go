package domain

// Page is one page of a server-side paginated listing.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// TotalPages is at least 1 so that an empty table still renders "page 1 of 1".
func (p *Page[T]) TotalPages() int {
	if p.Limit <= 0 || p.Total <= 0 {
		return 1
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

func (p *Page[T]) HasPrev() bool { return p.Page > 1 }

func (p *Page[T]) HasNext() bool { return p.Page < p.TotalPages() }

func (p *Page[T]) PrevPage() int {
	if p.Page <= 1 {
		return 1
	}
	return p.Page - 1
}

func (p *Page[T]) NextPage() int {
	if p.HasNext() {
		return p.Page + 1
	}
	return p.Page
}
