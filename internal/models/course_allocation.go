package models

import "time"

// CourseAllocation assigns a faculty member to teach a course to a class.
type CourseAllocation struct {
	ID        string       `json:"id"`
	Course    Ref[Course]  `json:"courseId"`
	Faculty   Ref[Faculty] `json:"facultyId"`
	Class     Ref[Class]   `json:"classId"`
	CreatedAt time.Time    `json:"createdAt"`
}

// CourseAllocationFilter narrows allocation listings. Empty fields are ignored.
type CourseAllocationFilter struct {
	FacultyID string
	ClassID   string
	CourseID  string
}
