package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-admin-api/internal/models"
)

const allocationSelect = `SELECT ca.id, ca.course_id, ca.faculty_id, ca.class_id, ca.created_at,
       co.code AS course_code, co.title AS course_title,
       f.name AS faculty_name, f.email AS faculty_email,
       cl.name AS class_name, cl.department_id AS class_department_id, cl.batch_id AS class_batch_id, cl.created_at AS class_created_at,
       d.code AS department_code, d.name AS department_name,
       b.name AS batch_name, b.start_year AS batch_start_year, b.end_year AS batch_end_year
FROM course_allocations ca
LEFT JOIN courses co ON co.id = ca.course_id
LEFT JOIN faculty f ON f.id = ca.faculty_id
LEFT JOIN classes cl ON cl.id = ca.class_id
LEFT JOIN departments d ON d.id = cl.department_id
LEFT JOIN batches b ON b.id = cl.batch_id`

type allocationRow struct {
	ID                string         `db:"id"`
	CourseID          string         `db:"course_id"`
	FacultyID         string         `db:"faculty_id"`
	ClassID           string         `db:"class_id"`
	CreatedAt         time.Time      `db:"created_at"`
	CourseCode        sql.NullString `db:"course_code"`
	CourseTitle       sql.NullString `db:"course_title"`
	FacultyName       sql.NullString `db:"faculty_name"`
	FacultyEmail      sql.NullString `db:"faculty_email"`
	ClassName         sql.NullString `db:"class_name"`
	ClassDepartmentID sql.NullString `db:"class_department_id"`
	ClassBatchID      sql.NullString `db:"class_batch_id"`
	ClassCreatedAt    sql.NullTime   `db:"class_created_at"`
	classJoinColumns
}

func (row allocationRow) toModel() models.CourseAllocation {
	allocation := models.CourseAllocation{
		ID:        row.ID,
		Course:    models.RefTo[models.Course](row.CourseID),
		Faculty:   models.RefTo[models.Faculty](row.FacultyID),
		Class:     models.RefTo[models.Class](row.ClassID),
		CreatedAt: row.CreatedAt,
	}
	if row.CourseCode.Valid {
		allocation.Course = models.Resolved(row.CourseID, &models.Course{ID: row.CourseID, Code: row.CourseCode.String, Title: row.CourseTitle.String})
	}
	if row.FacultyName.Valid {
		allocation.Faculty = models.Resolved(row.FacultyID, &models.Faculty{ID: row.FacultyID, Name: row.FacultyName.String, Email: row.FacultyEmail.String})
	}
	if row.ClassName.Valid {
		class := buildClass(row.ClassID, row.ClassName.String, row.ClassDepartmentID, row.ClassBatchID, row.ClassCreatedAt.Time, row.classJoinColumns)
		allocation.Class = models.Resolved(row.ClassID, &class)
	}
	return allocation
}

// CourseAllocationRepository persists course allocations.
type CourseAllocationRepository struct {
	db *sqlx.DB
}

// NewCourseAllocationRepository constructs the repository.
func NewCourseAllocationRepository(db *sqlx.DB) *CourseAllocationRepository {
	return &CourseAllocationRepository{db: db}
}

// List returns allocations with course, faculty and class populated.
func (r *CourseAllocationRepository) List(ctx context.Context, filter models.CourseAllocationFilter) ([]models.CourseAllocation, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("ca.faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("ca.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("ca.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	query := fmt.Sprintf("%s WHERE %s ORDER BY ca.created_at ASC", allocationSelect, strings.Join(conditions, " AND "))

	var rows []allocationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list course allocations: %w", err)
	}
	allocations := make([]models.CourseAllocation, 0, len(rows))
	for _, row := range rows {
		allocations = append(allocations, row.toModel())
	}
	return allocations, nil
}

// FindByID fetches a single allocation.
func (r *CourseAllocationRepository) FindByID(ctx context.Context, id string) (*models.CourseAllocation, error) {
	var row allocationRow
	if err := r.db.GetContext(ctx, &row, allocationSelect+" WHERE ca.id = $1", id); err != nil {
		return nil, err
	}
	allocation := row.toModel()
	return &allocation, nil
}

// Exists checks if the course-faculty-class tuple is already allocated.
func (r *CourseAllocationRepository) Exists(ctx context.Context, courseID, facultyID, classID string) (bool, error) {
	const query = `SELECT 1 FROM course_allocations WHERE course_id = $1 AND faculty_id = $2 AND class_id = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, courseID, facultyID, classID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course allocation: %w", err)
	}
	return true, nil
}

// Create inserts a new allocation.
func (r *CourseAllocationRepository) Create(ctx context.Context, allocation *models.CourseAllocation) error {
	if allocation.ID == "" {
		allocation.ID = uuid.NewString()
	}
	if allocation.CreatedAt.IsZero() {
		allocation.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO course_allocations (id, course_id, faculty_id, class_id, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query,
		allocation.ID, allocation.Course.ID, allocation.Faculty.ID, allocation.Class.ID, allocation.CreatedAt,
	); err != nil {
		return fmt.Errorf("create course allocation: %w", err)
	}
	return nil
}

// Delete removes an allocation.
func (r *CourseAllocationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM course_allocations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course allocation: %w", err)
	}
	return requireAffected(result, "delete course allocation")
}
