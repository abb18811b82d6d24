package models

import (
	"fmt"
	"time"
)

// Batch is an intake year group that classes belong to.
type Batch struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	StartYear int    `db:"start_year" json:"startYear"`
	EndYear   int    `db:"end_year" json:"endYear"`
}

// Class is a section of a batch within a department.
type Class struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Department Ref[Department] `json:"departmentId"`
	Batch      Ref[Batch]      `json:"batchId"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ClassLabel renders "<department code> - <batch name> - Section <class name>", substituting
// "Dept" and "Batch" when the references are not populated.
func ClassLabel(c Class) string {
	department := "Dept"
	if c.Department.Value != nil && c.Department.Value.Code != "" {
		department = c.Department.Value.Code
	}
	batch := "Batch"
	if c.Batch.Value != nil && c.Batch.Value.Name != "" {
		batch = c.Batch.Value.Name
	}
	return fmt.Sprintf("%s - %s - Section %s", department, batch, c.Name)
}
