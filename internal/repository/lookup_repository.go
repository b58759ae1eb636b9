package repository

import (
	"context"
	"database/sql"

	"github.com/maplewood/course-scheduler/internal/model"
)

// LookupRepo serves the flat read-only catalogs that sit outside the
// scheduling core.
type LookupRepo struct {
	db *sql.DB
}

// NewLookupRepo returns a LookupRepo bound to the given database.
func NewLookupRepo(db *sql.DB) *LookupRepo { return &LookupRepo{db: db} }

// Semesters returns all semesters, newest academic period first.
func (r *LookupRepo) Semesters(ctx context.Context) ([]model.Semester, error) {
	const q = `SELECT id, name, year, order_in_year, is_active
	           FROM semesters
	           ORDER BY year DESC, order_in_year DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	semesters := make([]model.Semester, 0)
	for rows.Next() {
		var s model.Semester
		if err := rows.Scan(&s.ID, &s.Name, &s.Year, &s.OrderInYear, &s.IsActive); err != nil {
			return nil, err
		}
		semesters = append(semesters, s)
	}
	return semesters, rows.Err()
}
