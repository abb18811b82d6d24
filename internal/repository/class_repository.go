package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-admin-api/internal/models"
)

const classSelect = `SELECT cl.id, cl.name, cl.department_id, cl.batch_id, cl.created_at,
       d.code AS department_code, d.name AS department_name,
       b.name AS batch_name, b.start_year AS batch_start_year, b.end_year AS batch_end_year
FROM classes cl
LEFT JOIN departments d ON d.id = cl.department_id
LEFT JOIN batches b ON b.id = cl.batch_id`

// classJoinColumns carries the department and batch columns joined onto a class.
type classJoinColumns struct {
	DepartmentCode sql.NullString `db:"department_code"`
	DepartmentName sql.NullString `db:"department_name"`
	BatchName      sql.NullString `db:"batch_name"`
	BatchStartYear sql.NullInt64  `db:"batch_start_year"`
	BatchEndYear   sql.NullInt64  `db:"batch_end_year"`
}

func buildClass(id, name string, departmentID, batchID sql.NullString, createdAt time.Time, joined classJoinColumns) models.Class {
	class := models.Class{
		ID:         id,
		Name:       name,
		Department: departmentRef(departmentID, joined.DepartmentCode, joined.DepartmentName),
		CreatedAt:  createdAt,
	}
	switch {
	case batchID.Valid && joined.BatchName.Valid:
		class.Batch = models.Resolved(batchID.String, &models.Batch{
			ID:        batchID.String,
			Name:      joined.BatchName.String,
			StartYear: int(joined.BatchStartYear.Int64),
			EndYear:   int(joined.BatchEndYear.Int64),
		})
	case batchID.Valid:
		class.Batch = models.RefTo[models.Batch](batchID.String)
	}
	return class
}

type classRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	DepartmentID sql.NullString `db:"department_id"`
	BatchID      sql.NullString `db:"batch_id"`
	CreatedAt    time.Time      `db:"created_at"`
	classJoinColumns
}

// ClassRepository reads classes with their department and batch.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns every class, optionally restricted to a department.
func (r *ClassRepository) List(ctx context.Context, departmentID string) ([]models.Class, error) {
	query := classSelect
	var args []interface{}
	if departmentID != "" {
		query += " WHERE cl.department_id = $1"
		args = append(args, departmentID)
	}
	query += " ORDER BY d.code ASC, b.name ASC, cl.name ASC"

	var rows []classRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	classes := make([]models.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, buildClass(row.ID, row.Name, row.DepartmentID, row.BatchID, row.CreatedAt, row.classJoinColumns))
	}
	return classes, nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	var row classRow
	if err := r.db.GetContext(ctx, &row, classSelect+" WHERE cl.id = $1", id); err != nil {
		return nil, err
	}
	class := buildClass(row.ID, row.Name, row.DepartmentID, row.BatchID, row.CreatedAt, row.classJoinColumns)
	return &class, nil
}
