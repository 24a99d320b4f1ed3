package domain

// Envelope is the wrapper every successful backend response carries.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Page is the paginated list wrapper used by list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// PageQuery carries the pageable parameters accepted by list endpoints.
// Zero values are omitted so the backend defaults apply.
type PageQuery struct {
	Page int
	Size int
	Sort string
}
