package model

// Semester is an academic scheduling period. OrderInYear positions it inside
// the academic year and selects which courses (by their semester_order
// bucket) are offered in it.
type Semester struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Year        int    `json:"year"`
	OrderInYear int    `json:"order_in_year"`
	IsActive    bool   `json:"is_active"`
}
