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

const facultySelect = `SELECT f.id, f.name, f.email, f.department_id, f.designation, f.phone, f.role, f.password_hash, f.created_at, f.updated_at,
       d.code AS department_code, d.name AS department_name
FROM faculty f
LEFT JOIN departments d ON d.id = f.department_id`

const defaultFacultyLimit = 1000

type facultyRow struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Email          string         `db:"email"`
	DepartmentID   sql.NullString `db:"department_id"`
	Designation    *string        `db:"designation"`
	Phone          *string        `db:"phone"`
	Role           string         `db:"role"`
	PasswordHash   string         `db:"password_hash"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DepartmentCode sql.NullString `db:"department_code"`
	DepartmentName sql.NullString `db:"department_name"`
}

func (row facultyRow) toModel() models.Faculty {
	faculty := models.Faculty{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Designation:  row.Designation,
		Phone:        row.Phone,
		Role:         models.FacultyRole(row.Role),
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	faculty.Department = departmentRef(row.DepartmentID, row.DepartmentCode, row.DepartmentName)
	return faculty
}

// departmentRef resolves the department when the join matched, otherwise keeps the bare id.
func departmentRef(id, code, name sql.NullString) models.Ref[models.Department] {
	if !id.Valid {
		return models.Ref[models.Department]{}
	}
	if !code.Valid {
		return models.RefTo[models.Department](id.String)
	}
	return models.Resolved(id.String, &models.Department{ID: id.String, Code: code.String, Name: name.String})
}

func nullableID(id string) sql.NullString {
	if strings.TrimSpace(id) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: id, Valid: true}
}

// FacultyRepository manages persistence for faculty members.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns faculty matching the filter sorted by name, plus the total matching count.
// Search matches name or email case-insensitively; the department filter is ANDed with it.
func (r *FacultyRepository) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if strings.TrimSpace(filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(f.name) LIKE $%d OR LOWER(f.email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, containsPattern(filter.Search))
	}
	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("f.department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	limit, offset := pageWindow(filter.Page, filter.Limit, defaultFacultyLimit)
	query := fmt.Sprintf("%s%s ORDER BY f.name ASC LIMIT %d OFFSET %d", facultySelect, where, limit, offset)

	var rows []facultyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list faculty: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM faculty f"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count faculty: %w", err)
	}

	result := make([]models.Faculty, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toModel())
	}
	return result, total, nil
}

// FindByID fetches a faculty member by ID.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	var row facultyRow
	if err := r.db.GetContext(ctx, &row, facultySelect+" WHERE f.id = $1", id); err != nil {
		return nil, err
	}
	faculty := row.toModel()
	return &faculty, nil
}

// FindByEmail fetches a faculty member by email, case-insensitively.
func (r *FacultyRepository) FindByEmail(ctx context.Context, email string) (*models.Faculty, error) {
	var row facultyRow
	if err := r.db.GetContext(ctx, &row, facultySelect+" WHERE LOWER(f.email) = LOWER($1)", email); err != nil {
		return nil, err
	}
	faculty := row.toModel()
	return &faculty, nil
}

// ExistsByEmail checks if another faculty member uses the same email.
func (r *FacultyRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM faculty WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check faculty email: %w", err)
	}
	return true, nil
}

// Create inserts a new faculty record. PasswordHash must already be hashed.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	if faculty.ID == "" {
		faculty.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if faculty.CreatedAt.IsZero() {
		faculty.CreatedAt = now
	}
	faculty.UpdatedAt = now

	const query = `INSERT INTO faculty (id, name, email, department_id, designation, phone, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		faculty.ID, faculty.Name, faculty.Email, nullableID(faculty.Department.ID), faculty.Designation, faculty.Phone,
		string(faculty.Role), faculty.PasswordHash, faculty.CreatedAt, faculty.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// Update overwrites an existing faculty record.
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	faculty.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculty SET name = $2, email = $3, department_id = $4, designation = $5, phone = $6, role = $7, password_hash = $8, updated_at = $9
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		faculty.ID, faculty.Name, faculty.Email, nullableID(faculty.Department.ID), faculty.Designation, faculty.Phone,
		string(faculty.Role), faculty.PasswordHash, faculty.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}
	return requireAffected(result, "update faculty")
}

// Delete removes a faculty record.
func (r *FacultyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM faculty WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete faculty: %w", err)
	}
	return requireAffected(result, "delete faculty")
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
