package models

import "time"

// FacultyRole distinguishes administrators from teaching staff.
type FacultyRole string

const (
	RoleAdmin   FacultyRole = "ADMIN"
	RoleFaculty FacultyRole = "FACULTY"
)

// Faculty is a teaching staff member. PasswordHash is never serialised.
type Faculty struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Department   Ref[Department] `json:"departmentId"`
	Designation  *string         `json:"designation,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Role         FacultyRole     `json:"role"`
	PasswordHash string          `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// FacultyFilter captures filtering options for listing faculty.
type FacultyFilter struct {
	Search       string
	DepartmentID string
	Page         int
	Limit        int
}
