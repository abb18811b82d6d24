package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-admin-api/internal/models"
)

// StudentRepository reads student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListByClass returns the roster of a class ordered by roll number.
func (r *StudentRepository) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	const query = `SELECT id, name, roll_no, email, guardian_mobile, class_id, created_at
FROM students WHERE class_id = $1 ORDER BY roll_no ASC`
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list class students: %w", err)
	}
	return students, nil
}
