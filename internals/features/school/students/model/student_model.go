// file: internals/features/school/students/model/student_model.go
package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
	Student/guardian CRUD lives in another service. These are the read models
	this core needs to address notifications and resolve promise subjects.
*/

type StudentModel struct {
	StudentID         uuid.UUID  `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentSchoolID   uuid.UUID  `gorm:"column:student_school_id;type:uuid;not null;index:idx_students_school" json:"student_school_id"`
	StudentName       string     `gorm:"column:student_name;type:varchar(120);not null" json:"student_name"`
	StudentGuardianID *uuid.UUID `gorm:"column:student_guardian_id;type:uuid" json:"student_guardian_id,omitempty"`
	StudentCreatedAt  time.Time  `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
}

func (StudentModel) TableName() string { return "students" }

type GuardianModel struct {
	GuardianID        uuid.UUID `gorm:"column:guardian_id;type:uuid;primaryKey" json:"guardian_id"`
	GuardianSchoolID  uuid.UUID `gorm:"column:guardian_school_id;type:uuid;not null" json:"guardian_school_id"`
	GuardianName      string    `gorm:"column:guardian_name;type:varchar(120);not null" json:"guardian_name"`
	GuardianEmail     *string   `gorm:"column:guardian_email;type:varchar(160)" json:"guardian_email,omitempty"`
	GuardianCreatedAt time.Time `gorm:"column:guardian_created_at;autoCreateTime" json:"guardian_created_at"`
}

func (GuardianModel) TableName() string { return "guardians" }

/* ===================== Lookups (read-only) ===================== */

func LookupStudent(ctx context.Context, db *gorm.DB, schoolID, studentID uuid.UUID) (*StudentModel, error) {
	var s StudentModel
	err := db.WithContext(ctx).
		Where("student_school_id = ? AND student_id = ?", schoolID, studentID).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func LookupGuardian(ctx context.Context, db *gorm.DB, schoolID, guardianID uuid.UUID) (*GuardianModel, error) {
	var g GuardianModel
	err := db.WithContext(ctx).
		Where("guardian_school_id = ? AND guardian_id = ?", schoolID, guardianID).
		Take(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GuardianEmailForStudent resolves the notification address for a student's
// guardian. Empty string when unknown — the notifier then no-ops.
func GuardianEmailForStudent(ctx context.Context, db *gorm.DB, schoolID, studentID uuid.UUID) string {
	s, err := LookupStudent(ctx, db, schoolID, studentID)
	if err != nil || s.StudentGuardianID == nil {
		return ""
	}
	g, err := LookupGuardian(ctx, db, schoolID, *s.StudentGuardianID)
	if err != nil || g.GuardianEmail == nil {
		return ""
	}
	return *g.GuardianEmail
}
