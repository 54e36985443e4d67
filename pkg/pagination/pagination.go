package pagination

// Params - параметры страницы. Page начинается с 1.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// New нормализует номер страницы и размер
func New(page, perPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	return Params{Page: page, PerPage: perPage}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Result - страница данных
type Result[T any] struct {
	Data       []T   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewResult[T any](data []T, totalCount int64, params Params) Result[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := int(totalCount / int64(params.PerPage))
	if totalCount%int64(params.PerPage) > 0 {
		totalPages++
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// Pages - номера страниц для шаблонов
func (r Result[T]) Pages() []int {
	out := make([]int, r.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func (r Result[T]) NextPage() int { return r.Page + 1 }
func (r Result[T]) PrevPage() int { return r.Page - 1 }
