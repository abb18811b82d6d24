package models

import "time"

// CourseCategory classifies a course in the catalog.
type CourseCategory string

const (
	CourseCategoryCore     CourseCategory = "Core"
	CourseCategoryElective CourseCategory = "Elective"
	CourseCategoryLab      CourseCategory = "Lab"
	CourseCategoryProject  CourseCategory = "Project"
)

// Course is a catalog entry. Code is the business key and never changes once created.
type Course struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Title       string          `json:"title"`
	Credits     int             `json:"credits"`
	Category    CourseCategory  `json:"category"`
	Description string          `json:"description"`
	Semester    int             `json:"semester"`
	Department  Ref[Department] `json:"departmentId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CourseFilter captures filtering options for listing courses.
type CourseFilter struct {
	Search       string
	DepartmentID string
	Category     string
	Semester     int
	Page         int
	PageSize     int
}
