package models

import "time"

// Student is a learner enrolled in exactly one class.
type Student struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	RollNo         string    `db:"roll_no" json:"rollNo"`
	Email          string    `db:"email" json:"email"`
	GuardianMobile *string   `db:"guardian_mobile" json:"guardianMobile,omitempty"`
	ClassID        string    `db:"class_id" json:"classId"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
