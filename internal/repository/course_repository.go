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

const courseSelect = `SELECT c.id, c.code, c.title, c.credits, c.category, c.description, c.semester, c.department_id, c.created_at, c.updated_at,
       d.code AS department_code, d.name AS department_name
FROM courses c
LEFT JOIN departments d ON d.id = c.department_id`

type courseRow struct {
	ID             string         `db:"id"`
	Code           string         `db:"code"`
	Title          string         `db:"title"`
	Credits        int            `db:"credits"`
	Category       string         `db:"category"`
	Description    string         `db:"description"`
	Semester       int            `db:"semester"`
	DepartmentID   sql.NullString `db:"department_id"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DepartmentCode sql.NullString `db:"department_code"`
	DepartmentName sql.NullString `db:"department_name"`
}

func (row courseRow) toModel() models.Course {
	return models.Course{
		ID:          row.ID,
		Code:        row.Code,
		Title:       row.Title,
		Credits:     row.Credits,
		Category:    models.CourseCategory(row.Category),
		Description: row.Description,
		Semester:    row.Semester,
		Department:  departmentRef(row.DepartmentID, row.DepartmentCode, row.DepartmentName),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// CourseRepository manages persistence for the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses matching filters ordered by code, with the total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if strings.TrimSpace(filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.code) LIKE $%d OR LOWER(c.title) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, containsPattern(filter.Search))
	}
	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("c.department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("c.category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Semester > 0 {
		conditions = append(conditions, fmt.Sprintf("c.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	limit, offset := pageWindow(filter.Page, filter.PageSize, 100)
	query := fmt.Sprintf("%s%s ORDER BY c.code ASC LIMIT %d OFFSET %d", courseSelect, where, limit, offset)

	var rows []courseRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM courses c"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	courses := make([]models.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toModel())
	}
	return courses, total, nil
}

// FindByID fetches a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var row courseRow
	if err := r.db.GetContext(ctx, &row, courseSelect+" WHERE c.id = $1", id); err != nil {
		return nil, err
	}
	course := row.toModel()
	return &course, nil
}

// ExistsByCode checks whether the code is already taken, case-insensitively.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM courses WHERE UPPER(code) = UPPER($1)"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, code, title, credits, category, description, semester, department_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		course.ID, course.Code, course.Title, course.Credits, string(course.Category), course.Description,
		course.Semester, nullableID(course.Department.ID), course.CreatedAt, course.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of a course. The code column is never written.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = $2, credits = $3, category = $4, description = $5, semester = $6, department_id = $7, updated_at = $8
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		course.ID, course.Title, course.Credits, string(course.Category), course.Description,
		course.Semester, nullableID(course.Department.ID), course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return requireAffected(result, "update course")
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireAffected(result, "delete course")
}
