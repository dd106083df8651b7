// file: internals/features/school/enrollments/model/enrollment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentModel struct {
	EnrollmentID uuid.UUID `gorm:"column:enrollment_id;type:uuid;primaryKey" json:"enrollment_id"`

	EnrollmentSchoolID  uuid.UUID `gorm:"column:enrollment_school_id;type:uuid;not null;uniqueIndex:uq_enrollments_slot,priority:1" json:"enrollment_school_id"`
	EnrollmentStudentID uuid.UUID `gorm:"column:enrollment_student_id;type:uuid;not null;uniqueIndex:uq_enrollments_slot,priority:2" json:"enrollment_student_id"`
	EnrollmentClassID   uuid.UUID `gorm:"column:enrollment_class_id;type:uuid;not null;uniqueIndex:uq_enrollments_slot,priority:3" json:"enrollment_class_id"`
	EnrollmentPeriod    string    `gorm:"column:enrollment_period;type:varchar(32);not null;uniqueIndex:uq_enrollments_slot,priority:4" json:"enrollment_period"`

	EnrollmentStatus string `gorm:"column:enrollment_status;type:varchar(16);not null;default:'active'" json:"enrollment_status"`

	// Audit trail for debt-gate overrides (acting admin + overdue count).
	EnrollmentNote *string `gorm:"column:enrollment_note;type:text" json:"enrollment_note,omitempty"`

	EnrollmentCreatedAt time.Time      `gorm:"column:enrollment_created_at;autoCreateTime" json:"enrollment_created_at"`
	EnrollmentUpdatedAt time.Time      `gorm:"column:enrollment_updated_at;autoUpdateTime" json:"enrollment_updated_at"`
	EnrollmentDeletedAt gorm.DeletedAt `gorm:"column:enrollment_deleted_at;index" json:"enrollment_deleted_at,omitempty"`
}

func (EnrollmentModel) TableName() string { return "enrollments" }

func (e *EnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if e.EnrollmentID == uuid.Nil {
		e.EnrollmentID = uuid.New()
	}
	return nil
}
